package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/sqlite"
)

// ErrNoRecord is returned when a lookup matches nothing.
var ErrNoRecord = errors.NewSentinel("no matching record found")

type InterviewRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewInterviewRepository(dbs *sqlite.Database, logger *slog.Logger) *InterviewRepository {
	return &InterviewRepository{
		dbs:    dbs,
		logger: logger.With("source", "InterviewRepository"),
	}
}

// Create stores a new interview with its picked questions.
func (r *InterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	questions, err := json.Marshal(interview.Questions)
	if err != nil {
		return errors.Wrap(err, "marshal questions")
	}

	stmt := `INSERT INTO interviews (id, job_role, industry, question_count, questions)
	VALUES (@id, @job_role, @industry, @question_count, @questions)`
	params := []any{
		sql.Named("id", interview.ID),
		sql.Named("job_role", interview.JobRole),
		sql.Named("industry", interview.Industry),
		sql.Named("question_count", interview.QuestionCount),
		sql.Named("questions", string(questions)),
	}
	if _, err = r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert interview")
	}
	return nil
}

// Get loads an interview with its exchanges ordered by position.
func (r *InterviewRepository) Get(ctx context.Context, id string) (*models.Interview, error) {
	var (
		interview   models.Interview
		questions   string
		completedAt sql.NullTime
		err         error
		rows        *sql.Rows
	)

	stmt := `SELECT id, job_role, industry, question_count, questions, assessment, report_path, started_at, completed_at
	FROM interviews WHERE id = ?`
	if err = r.dbs.ReadOnly.QueryRowContext(ctx, stmt, id).Scan(
		&interview.ID,
		&interview.JobRole,
		&interview.Industry,
		&interview.QuestionCount,
		&questions,
		&interview.Assessment,
		&interview.ReportPath,
		&interview.StartedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNoRecord, "read interview", slog.String("interview_id", id))
		}
		return nil, errors.Wrap(err, "read interview")
	}
	if err = json.Unmarshal([]byte(questions), &interview.Questions); err != nil {
		return nil, errors.Wrap(err, "unmarshal questions")
	}
	if completedAt.Valid {
		interview.CompletedAt = &completedAt.Time
	}

	stmt = `SELECT position, question, answer, feedback, tokens_used, created_at
	FROM exchanges
	WHERE interview_id = ?
	ORDER BY position`
	if rows, err = r.dbs.ReadOnly.QueryContext(ctx, stmt, id); err != nil {
		return nil, errors.Wrap(err, "query exchanges")
	}
	defer func() {
		if err = rows.Close(); err != nil {
			err = errors.Wrap(err, "close rows")
			r.logger.Error("could not close rows", errors.SlogError(err))
		}
	}()
	for rows.Next() {
		var exchange models.Exchange
		if err = rows.Scan(
			&exchange.Position,
			&exchange.Question,
			&exchange.Answer,
			&exchange.Feedback,
			&exchange.TokensUsed,
			&exchange.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan exchange")
		}
		interview.Exchanges = append(interview.Exchanges, exchange)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}

	return &interview, nil
}

// AppendExchange adds an answered turn to the end of the interview.
//
// The position is derived from the last stored exchange so that positions stay
// dense and ordered no matter how many turns failed in between.
func (r *InterviewRepository) AppendExchange(
	ctx context.Context,
	interviewID string,
	exchange models.Exchange,
) error {
	stmt := `INSERT INTO exchanges (interview_id, position, question, answer, feedback, tokens_used)
	VALUES (@interview_id,
	        (SELECT COALESCE(MAX(position) + 1, 0) FROM exchanges WHERE interview_id = @interview_id),
	        @question, @answer, @feedback, @tokens_used)`
	params := []any{
		sql.Named("interview_id", interviewID),
		sql.Named("question", exchange.Question),
		sql.Named("answer", exchange.Answer),
		sql.Named("feedback", exchange.Feedback),
		sql.Named("tokens_used", exchange.TokensUsed),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert exchange")
	}
	return nil
}

// Complete marks the interview finished. Completing an already completed
// interview is a no-op so that a repeated form submit stays harmless.
func (r *InterviewRepository) Complete(ctx context.Context, id string) error {
	stmt := `UPDATE interviews SET completed_at = CURRENT_TIMESTAMP WHERE id = @id AND completed_at IS NULL`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, sql.Named("id", id)); err != nil {
		return errors.Wrap(err, "complete interview")
	}
	return nil
}

// SetReport records the closing assessment and where the exported report was
// written. The assessment must survive restarts so the report page can be
// rebuilt from the database alone.
func (r *InterviewRepository) SetReport(ctx context.Context, id string, assessment string, path string) error {
	stmt := `UPDATE interviews SET assessment = @assessment, report_path = @path WHERE id = @id`
	params := []any{
		sql.Named("id", id),
		sql.Named("assessment", assessment),
		sql.Named("path", path),
	}
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "set report")
	}
	return nil
}

// Delete removes the interview and its exchanges.
func (r *InterviewRepository) Delete(ctx context.Context, id string) error {
	stmt := `DELETE FROM interviews WHERE id = @id`
	if _, err := r.dbs.ReadWrite.ExecContext(ctx, stmt, sql.Named("id", id)); err != nil {
		return errors.Wrap(err, "delete interview")
	}
	return nil
}
