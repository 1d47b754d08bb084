package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/reports"
	"github.com/myrjola/hotseat/internal/repositories"
)

type interviewTemplateData struct {
	BaseTemplateData
	IndustryLabel  string
	JobRoleLabel   string
	Question       string
	QuestionNumber int
	QuestionCount  int
	// LastFeedback is the feedback on the previous answer, shown above the
	// next question.
	LastFeedback string
	// Answer preserves the submitted text when feedback failed so the visitor
	// can retry without retyping.
	Answer string
	// Done means every question has an answer and only finishing remains.
	Done  bool
	Error string
}

func (app *application) newInterviewTemplateData(r *http.Request, interview *models.Interview) interviewTemplateData {
	data := interviewTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		IndustryLabel:    app.catalog.IndustryLabel(interview.Industry),
		JobRoleLabel:     app.catalog.JobRoleLabel(interview.JobRole),
		QuestionCount:    len(interview.Questions),
	}

	if question, ok := interview.CurrentQuestion(); ok {
		data.Question = question
		data.QuestionNumber = interview.Answered() + 1
	} else {
		data.Done = true
	}

	if n := len(interview.Exchanges); n > 0 {
		data.LastFeedback = interview.Exchanges[n-1].Feedback
	}

	return data
}

func (app *application) currentInterview(w http.ResponseWriter, r *http.Request) {
	interview, err := app.sessionInterview(r)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if interview.Completed() {
		http.Redirect(w, r, "/interviews/current/report", http.StatusSeeOther)
		return
	}

	app.renderInterview(w, r, http.StatusOK, app.newInterviewTemplateData(r, interview))
}

func (app *application) submitAnswer(w http.ResponseWriter, r *http.Request) {
	interview, err := app.sessionInterview(r)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if interview.Completed() {
		http.Redirect(w, r, "/interviews/current/report", http.StatusSeeOther)
		return
	}

	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	data := app.newInterviewTemplateData(r, interview)

	if data.Done {
		// Nothing left to answer, show the finish prompt.
		app.renderInterview(w, r, http.StatusOK, data)
		return
	}

	answer := strings.TrimSpace(r.PostForm.Get("answer"))
	if answer == "" {
		data.Error = "Please provide an answer before submitting."
		app.renderInterview(w, r, http.StatusOK, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), app.config.LLMTimeout)
	defer cancel()

	exchange, err := app.coach.Feedback(ctx, interview, answer)
	if err != nil {
		// A failed feedback call leaves the turn unanswered. The answer is
		// kept in the form so submitting again retries the same turn.
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "feedback failed",
			slog.String("interview_id", interview.ID), errors.SlogError(err))
		data.Answer = answer
		data.Error = feedbackErrorMessage(err)
		app.renderInterview(w, r, http.StatusOK, data)
		return
	}

	if err = app.interviews.AppendExchange(r.Context(), interview.ID, exchange); err != nil {
		app.serverError(w, r, err)
		return
	}
	interview.Exchanges = append(interview.Exchanges, exchange)

	app.renderInterview(w, r, http.StatusOK, app.newInterviewTemplateData(r, interview))
}

func (app *application) finishInterview(w http.ResponseWriter, r *http.Request) {
	interview, err := app.sessionInterview(r)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, err)
		return
	}

	if !interview.Completed() {
		if err = app.completeInterview(r, interview); err != nil {
			app.serverError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/interviews/current/report", http.StatusSeeOther)
}

// completeInterview generates the closing assessment, exports the report to
// disk, and marks the interview finished. The assessment is best effort; the
// export is not, since the report page links to the file.
func (app *application) completeInterview(r *http.Request, interview *models.Interview) error {
	if interview.Answered() > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), app.config.LLMTimeout)
		assessment, err := app.coach.ClosingAssessment(ctx, interview)
		cancel()
		if err != nil {
			app.logger.LogAttrs(r.Context(), slog.LevelWarn, "closing assessment failed",
				slog.String("interview_id", interview.ID), errors.SlogError(err))
		} else {
			interview.Assessment = assessment
		}
	}

	report := reports.New(interview, time.Now())
	path, err := app.reports.Save(report)
	if err != nil {
		return errors.Wrap(err, "save report")
	}

	if err = app.interviews.Complete(r.Context(), interview.ID); err != nil {
		return errors.Wrap(err, "complete interview")
	}
	if err = app.interviews.SetReport(r.Context(), interview.ID, interview.Assessment, path); err != nil {
		return errors.Wrap(err, "set report")
	}

	artifact := models.Artifact{
		ID:      uuid.New().String(),
		Kind:    models.ArtifactKindReport,
		JobRole: interview.JobRole,
		Path:    path,
	}
	if err = app.artifacts.Insert(r.Context(), artifact); err != nil {
		// The report is already on disk, a missing index entry only hides it
		// from the files page.
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "index report artifact failed",
			slog.String("interview_id", interview.ID), errors.SlogError(err))
	}

	return nil
}

// renderInterview writes either the full page or only the interview panel
// when the request came from htmx.
func (app *application) renderInterview(w http.ResponseWriter, r *http.Request, status int, data interviewTemplateData) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderFragment(w, r, status, "interview", "interview-panel", data)
		return
	}
	app.render(w, r, status, "interview", data)
}

// feedbackErrorMessage turns a gateway failure into advice the visitor can
// act on.
func feedbackErrorMessage(err error) string {
	switch aierrors.TypeOf(err) {
	case aierrors.TypeConfig:
		return "The AI gateway rejected our credentials. Check the server's API key configuration."
	case aierrors.TypeQuota:
		return "The AI gateway is rate limiting us. Wait a moment and submit again."
	case aierrors.TypeTransport:
		return "We could not reach the AI gateway. Check your connection and submit again."
	case aierrors.TypeBadPrompt:
		return "The AI gateway rejected the request. Try shortening your answer."
	case aierrors.TypeEmptyResponse:
		return "The AI gateway returned an empty response. Submit again to retry."
	default:
		return "Something went wrong while grading your answer. Submit again to retry."
	}
}
