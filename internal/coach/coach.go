// Package coach evaluates interview answers and produces the closing
// assessment. It holds no interview state of its own; the caller loads the
// interview, asks for feedback, and persists what it wants to keep.
package coach

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/myrjola/hotseat/internal/ai"
	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/prompts"
	"github.com/myrjola/hotseat/internal/reports"
)

type Coach struct {
	client ai.Client
}

func New(client ai.Client) *Coach {
	return &Coach{client: client}
}

// Feedback evaluates an answer to the interview's current question and
// returns the exchange to persist. The interview itself is not mutated, so a
// failed call leaves the turn unanswered and it can simply be retried.
func (c *Coach) Feedback(
	ctx context.Context,
	interview *models.Interview,
	answer string,
) (models.Exchange, error) {
	question, ok := interview.CurrentQuestion()
	if !ok {
		return models.Exchange{}, errors.New("no question left to answer",
			slog.String("interview_id", interview.ID))
	}

	prompt := prompts.Feedback{
		JobRole:  catalog.DisplayName(interview.JobRole),
		Industry: catalog.DisplayName(interview.Industry),
		Question: question,
		Answer:   answer,
	}

	resp, err := c.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			ai.System(prompt.System()),
			ai.User(prompt.Build()),
		},
	})
	if err != nil {
		return models.Exchange{}, errors.Wrap(err, "generate feedback",
			slog.String("interview_id", interview.ID),
			slog.Int("question", interview.Answered()))
	}

	return models.Exchange{
		Position:   int64(interview.Answered()),
		Question:   question,
		Answer:     answer,
		Feedback:   reports.FormatFeedback(resp.Content),
		TokensUsed: int64(resp.Usage.TotalTokens),
	}, nil
}

// exchangeRecord is the JSON shape the closing assessment prompt receives for
// each answered turn.
type exchangeRecord struct {
	QuestionIdx int64  `json:"question_idx"`
	Question    string `json:"question"`
	Response    string `json:"response"`
	Feedback    string `json:"feedback"`
}

// ClosingAssessment generates the overall report text across every answered
// turn of the interview.
func (c *Coach) ClosingAssessment(ctx context.Context, interview *models.Interview) (string, error) {
	records := make([]exchangeRecord, 0, len(interview.Exchanges))
	for _, exchange := range interview.Exchanges {
		records = append(records, exchangeRecord{
			QuestionIdx: exchange.Position,
			Question:    exchange.Question,
			Response:    exchange.Answer,
			Feedback:    exchange.Feedback,
		})
	}

	exchangesJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal exchanges",
			slog.String("interview_id", interview.ID))
	}

	prompt := prompts.ClosingAssessment{
		JobRole:       catalog.DisplayName(interview.JobRole),
		Industry:      catalog.DisplayName(interview.Industry),
		ExchangesJSON: string(exchangesJSON),
	}

	resp, err := c.client.Complete(ctx, ai.CompletionRequest{
		Messages: []ai.Message{
			ai.System(prompt.System()),
			ai.User(prompt.Build()),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "generate closing assessment",
			slog.String("interview_id", interview.ID))
	}

	return resp.Content, nil
}
