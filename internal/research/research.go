// Package research drives the interview preparation assistant. Each operation
// gathers notes from the web, asks the model for a report grounded in those
// notes, writes the answer as a Markdown artifact, and indexes it so later
// operations and the UI can find it.
package research

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/prompts"
	"github.com/myrjola/hotseat/internal/repositories"
	"github.com/myrjola/hotseat/internal/webfetch"
)

const (
	// prepTemperature keeps research output factual rather than creative.
	prepTemperature = 0.3

	resultsPerQuery = 3
	pagesPerQuery   = 2

	// quickMaxQueries caps lookups in quick mode.
	quickMaxQueries = 3

	// maxContextRunes caps the gathered notes so they leave room for the
	// answer within the model's context window.
	maxContextRunes = 20000
)

// Service runs the preparation operations. Construct it with NewService.
type Service struct {
	client    ai.Client
	fetcher   webfetch.Fetcher
	searchers []webfetch.Searcher
	artifacts *repositories.ArtifactRepository
	outputDir string
	logger    *slog.Logger
}

func NewService(
	client ai.Client,
	fetcher webfetch.Fetcher,
	searchers []webfetch.Searcher,
	artifacts *repositories.ArtifactRepository,
	outputDir string,
	logger *slog.Logger,
) *Service {
	return &Service{
		client:    client,
		fetcher:   fetcher,
		searchers: searchers,
		artifacts: artifacts,
		outputDir: outputDir,
		logger:    logger.With("source", "research.Service"),
	}
}

// Request identifies the position being prepared for.
type Request struct {
	Company string
	JobRole string
	// Quick trades depth for speed: fewer web lookups and a condensed answer.
	Quick bool
	// Days is the preparation window. Only plans read it.
	Days int
}

// Result is one finished preparation operation.
type Result struct {
	Answer       string
	ArtifactPath string
	TokensUsed   int
	Duration     time.Duration
}

// ResearchCompany builds an employer research report for the company.
func (s *Service) ResearchCompany(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	queries := []string{
		req.Company + " company overview",
		req.Company + " company culture and values",
		req.Company + " interview process",
		req.Company + " recent news",
	}
	notes := s.gather(ctx, trim(queries, req.Quick))

	prompt := prompts.CompanyResearch{Company: req.Company, Context: notes, Quick: req.Quick}
	answer, tokens, err := s.complete(ctx, prompt.System(), prompt.Build())
	if err != nil {
		return Result{}, errors.Wrap(err, "research company", slog.String("company", req.Company))
	}

	path, err := s.saveArtifact(ctx, models.ArtifactKindResearch, req, answer)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Answer:       answer,
		ArtifactPath: path,
		TokensUsed:   tokens,
		Duration:     time.Since(started),
	}, nil
}

// GenerateQuestions builds a question bank for the role at the company. When
// a research artifact for the company exists, its content is fed to the model
// alongside fresh lookups.
func (s *Service) GenerateQuestions(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	queries := []string{
		req.Company + " " + req.JobRole + " interview questions",
		req.Company + " interview process",
	}
	notes := s.gather(ctx, trim(queries, req.Quick))
	notes = s.prependArtifact(ctx, models.ArtifactKindResearch, req.Company, notes)

	prompt := prompts.InterviewQuestions{
		JobRole: req.JobRole,
		Company: req.Company,
		Context: notes,
		Quick:   req.Quick,
	}
	answer, tokens, err := s.complete(ctx, prompt.System(), prompt.Build())
	if err != nil {
		return Result{}, errors.Wrap(err, "generate questions",
			slog.String("company", req.Company), slog.String("job_role", req.JobRole))
	}

	path, err := s.saveArtifact(ctx, models.ArtifactKindQuestions, req, answer)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Answer:       answer,
		ArtifactPath: path,
		TokensUsed:   tokens,
		Duration:     time.Since(started),
	}, nil
}

// PrepPlan builds a day-by-day preparation plan. Existing research and
// question artifacts for the company are folded into the notes.
func (s *Service) PrepPlan(ctx context.Context, req Request) (Result, error) {
	started := time.Now()

	days := req.Days
	if days < 1 {
		days = 7
	}

	queries := []string{
		req.Company + " " + req.JobRole + " interview preparation",
	}
	notes := s.gather(ctx, trim(queries, req.Quick))
	notes = s.prependArtifact(ctx, models.ArtifactKindQuestions, req.Company, notes)
	notes = s.prependArtifact(ctx, models.ArtifactKindResearch, req.Company, notes)

	prompt := prompts.PrepPlan{
		JobRole: req.JobRole,
		Company: req.Company,
		Days:    days,
		Context: notes,
		Quick:   req.Quick,
	}
	answer, tokens, err := s.complete(ctx, prompt.System(), prompt.Build())
	if err != nil {
		return Result{}, errors.Wrap(err, "build prep plan",
			slog.String("company", req.Company), slog.String("job_role", req.JobRole))
	}

	path, err := s.saveArtifact(ctx, models.ArtifactKindPrepPlan, req, answer)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Answer:       answer,
		ArtifactPath: path,
		TokensUsed:   tokens,
		Duration:     time.Since(started),
	}, nil
}

func trim(queries []string, quick bool) []string {
	if quick && len(queries) > quickMaxQueries {
		return queries[:quickMaxQueries]
	}
	return queries
}

func (s *Service) complete(ctx context.Context, system, user string) (string, int, error) {
	resp, err := s.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			ai.System(system),
			ai.User(user),
		},
		Temperature: prepTemperature,
	})
	if err != nil {
		return "", 0, err
	}
	return resp.Content, resp.Usage.TotalTokens, nil
}

// gather runs the queries across the searchers and fetches the most promising
// pages. A failing searcher or page is logged and skipped; research degrades
// to whatever could be collected, down to an empty string.
func (s *Service) gather(ctx context.Context, queries []string) string {
	var notes strings.Builder
	seen := make(map[string]bool)

	for _, query := range queries {
		fetched := 0
		for _, result := range s.search(ctx, query) {
			if result.URL == "" || seen[result.URL] {
				continue
			}
			seen[result.URL] = true

			if fetched < pagesPerQuery {
				snapshot, err := s.fetcher.Fetch(ctx, result.URL)
				if err == nil {
					fetched++
					appendNote(&notes, snapshot.Title, snapshot.URL, snapshot.Text)
					continue
				}
				s.logger.LogAttrs(ctx, slog.LevelWarn, "page fetch failed",
					slog.String("url", result.URL), errors.SlogError(err))
			}

			// The snippet still tells the model something even when the page
			// itself was not fetched.
			appendNote(&notes, result.Title, result.URL, result.Snippet)
		}

		if runeLen(notes.String()) >= maxContextRunes {
			break
		}
	}

	return truncateRunes(notes.String(), maxContextRunes)
}

// search merges results from every searcher. A provider that errors out is
// skipped so that one blocked API does not kill the whole lookup.
func (s *Service) search(ctx context.Context, query string) []webfetch.Result {
	var merged []webfetch.Result
	for _, searcher := range s.searchers {
		results, err := searcher.Search(ctx, query, resultsPerQuery)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "search failed",
				slog.String("provider", searcher.Name()), slog.String("query", query),
				errors.SlogError(err))
			continue
		}
		merged = append(merged, results...)
	}
	return merged
}

func appendNote(b *strings.Builder, title, pageURL, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if title == "" {
		title = pageURL
	}
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString(" (")
	b.WriteString(pageURL)
	b.WriteString(")\n\n")
	b.WriteString(text)
	b.WriteString("\n\n")
}

// prependArtifact folds a previously saved artifact into the notes so later
// stages build on earlier ones. Missing artifacts and unreadable files are
// fine, the notes are just returned unchanged.
func (s *Service) prependArtifact(ctx context.Context, kind models.ArtifactKind, company, notes string) string {
	artifact, err := s.artifacts.LatestByKind(ctx, kind, company)
	if err != nil {
		if !errors.Is(err, repositories.ErrNoRecord) {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "artifact lookup failed", errors.SlogError(err))
		}
		return notes
	}

	content, err := os.ReadFile(artifact.Path)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "artifact file unreadable",
			slog.String("path", artifact.Path), errors.SlogError(err))
		return notes
	}

	combined := "## Earlier notes: " + string(kind) + "\n\n" + string(content) + "\n\n" + notes
	return truncateRunes(combined, maxContextRunes)
}

// saveArtifact writes the answer under the output directory and indexes it.
func (s *Service) saveArtifact(
	ctx context.Context,
	kind models.ArtifactKind,
	req Request,
	answer string,
) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output directory", slog.String("dir", s.outputDir))
	}

	path := filepath.Join(s.outputDir, artifactFilename(kind, req))
	if err := os.WriteFile(path, []byte(answer), 0o644); err != nil {
		return "", errors.Wrap(err, "write artifact", slog.String("path", path))
	}

	artifact := models.Artifact{
		ID:      uuid.New().String(),
		Kind:    kind,
		Company: req.Company,
		JobRole: req.JobRole,
		Path:    path,
	}
	if err := s.artifacts.Insert(ctx, artifact); err != nil {
		return "", errors.Wrap(err, "index artifact", slog.String("path", path))
	}

	return path, nil
}

func artifactFilename(kind models.ArtifactKind, req Request) string {
	var suffix string
	switch kind {
	case models.ArtifactKindResearch:
		suffix = "Research"
	case models.ArtifactKindQuestions:
		suffix = "Questions"
	case models.ArtifactKindPrepPlan:
		suffix = "Prep_Plan"
	case models.ArtifactKindReport:
		suffix = "Report"
	default:
		suffix = "Notes"
	}
	return sanitizeFilename(req.JobRole) + "_at_" + sanitizeFilename(req.Company) + "_" + suffix + ".md"
}

// sanitizeFilename keeps letters, digits, dashes, and underscores so that
// user-supplied names cannot escape the output directory.
func sanitizeFilename(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, s)
	if mapped == "" {
		return "unknown"
	}
	return mapped
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
