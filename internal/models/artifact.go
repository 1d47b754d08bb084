package models

import "time"

type ArtifactKind string

const (
	ArtifactKindResearch  ArtifactKind = "research"
	ArtifactKindQuestions ArtifactKind = "questions"
	ArtifactKindPrepPlan  ArtifactKind = "prep_plan"
	ArtifactKindReport    ArtifactKind = "report"
)

// Artifact is a generated file (research notes, question list, prep plan, or
// interview report) indexed for listing and download.
type Artifact struct {
	ID        string       `db:"id"`
	Kind      ArtifactKind `db:"kind"`
	Company   string       `db:"company"`
	JobRole   string       `db:"job_role"`
	Path      string       `db:"path"`
	CreatedAt time.Time    `db:"created_at"`
}
