package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/sqlite"
)

type ArtifactRepository struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
	logger    *slog.Logger
}

func NewArtifactRepository(dbs *sqlite.Database, logger *slog.Logger) *ArtifactRepository {
	return &ArtifactRepository{
		readWrite: sqlx.NewDb(dbs.ReadWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(dbs.ReadOnly, "sqlite3"),
		logger:    logger.With("source", "ArtifactRepository"),
	}
}

// Insert indexes a generated file.
func (r *ArtifactRepository) Insert(ctx context.Context, artifact models.Artifact) error {
	stmt := `INSERT INTO artifacts (id, kind, company, job_role, path)
	VALUES (:id, :kind, :company, :job_role, :path)`
	if _, err := r.readWrite.NamedExecContext(ctx, stmt, artifact); err != nil {
		return errors.Wrap(err, "insert artifact", slog.String("artifact_id", artifact.ID))
	}
	return nil
}

// List returns all artifacts, newest first.
func (r *ArtifactRepository) List(ctx context.Context) ([]models.Artifact, error) {
	var artifacts []models.Artifact
	stmt := `SELECT id, kind, company, job_role, path, created_at
	FROM artifacts
	ORDER BY created_at DESC, id`
	if err := r.readOnly.SelectContext(ctx, &artifacts, stmt); err != nil {
		return nil, errors.Wrap(err, "select artifacts")
	}
	return artifacts, nil
}

// Get returns one artifact by ID.
func (r *ArtifactRepository) Get(ctx context.Context, id string) (*models.Artifact, error) {
	var artifact models.Artifact
	stmt := `SELECT id, kind, company, job_role, path, created_at FROM artifacts WHERE id = ?`
	if err := r.readOnly.GetContext(ctx, &artifact, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNoRecord, "read artifact", slog.String("artifact_id", id))
		}
		return nil, errors.Wrap(err, "read artifact")
	}
	return &artifact, nil
}

// LatestByKind returns the most recent artifact of the given kind for a company.
// Later stages build on it, e.g. question generation reuses saved research notes.
func (r *ArtifactRepository) LatestByKind(
	ctx context.Context,
	kind models.ArtifactKind,
	company string,
) (*models.Artifact, error) {
	var artifact models.Artifact
	stmt := `SELECT id, kind, company, job_role, path, created_at
	FROM artifacts
	WHERE kind = ? AND company = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1`
	if err := r.readOnly.GetContext(ctx, &artifact, stmt, kind, company); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNoRecord, "read latest artifact",
				slog.String("kind", string(kind)), slog.String("company", company))
		}
		return nil, errors.Wrap(err, "read latest artifact")
	}
	return &artifact, nil
}
