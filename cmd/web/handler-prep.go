package main

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/research"
)

const (
	defaultPrepDays = 7
	maxPrepDays     = 30
)

type prepTemplateData struct {
	BaseTemplateData
	Company string
	JobRole string
	Quick   bool
	Days    int
	Error   string
	Result  *prepResultData
}

type prepResultData struct {
	Heading      string
	Answer       string
	TokensUsed   int
	Duration     string
	ArtifactName string
}

func (app *application) newPrepTemplateData(r *http.Request) prepTemplateData {
	return prepTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Quick:            true,
		Days:             defaultPrepDays,
	}
}

func (app *application) prep(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "prep", app.newPrepTemplateData(r))
}

func (app *application) prepResearch(w http.ResponseWriter, r *http.Request) {
	app.runPrep(w, r, "Company Research", app.researcher.ResearchCompany)
}

func (app *application) prepQuestions(w http.ResponseWriter, r *http.Request) {
	app.runPrep(w, r, "Interview Questions", app.researcher.GenerateQuestions)
}

func (app *application) prepPlan(w http.ResponseWriter, r *http.Request) {
	app.runPrep(w, r, "Preparation Plan", app.researcher.PrepPlan)
}

// runPrep drives one preparation operation from the shared form. All three
// operations take the same inputs and produce the same result shape.
func (app *application) runPrep(
	w http.ResponseWriter,
	r *http.Request,
	heading string,
	operation func(context.Context, research.Request) (research.Result, error),
) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	data := app.newPrepTemplateData(r)
	data.Company = strings.TrimSpace(r.PostForm.Get("company"))
	data.JobRole = strings.TrimSpace(r.PostForm.Get("job_role"))
	data.Quick = r.PostForm.Get("quick") == "true"
	if days, err := strconv.Atoi(r.PostForm.Get("days")); err == nil && days >= 1 && days <= maxPrepDays {
		data.Days = days
	}

	if data.Company == "" || data.JobRole == "" {
		data.Error = "Please fill in both the company name and the job role."
		app.renderPrep(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	result, err := operation(r.Context(), research.Request{
		Company: data.Company,
		JobRole: data.JobRole,
		Quick:   data.Quick,
		Days:    data.Days,
	})
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "prep operation failed",
			slog.String("company", data.Company), slog.String("job_role", data.JobRole),
			errors.SlogError(err))
		data.Error = prepErrorMessage(err)
		app.renderPrep(w, r, http.StatusOK, data)
		return
	}

	data.Result = &prepResultData{
		Heading:      heading,
		Answer:       result.Answer,
		TokensUsed:   result.TokensUsed,
		Duration:     result.Duration.Round(100 * time.Millisecond).String(),
		ArtifactName: filepath.Base(result.ArtifactPath),
	}

	app.renderPrep(w, r, http.StatusOK, data)
}

// renderPrep writes either the full page or only the result panel when the
// request came from htmx.
func (app *application) renderPrep(w http.ResponseWriter, r *http.Request, status int, data prepTemplateData) {
	if app.htmx.NewHandler(w, r).IsHxRequest() {
		app.renderFragment(w, r, status, "prep", "prep-result", data)
		return
	}
	app.render(w, r, status, "prep", data)
}

func prepErrorMessage(err error) string {
	switch aierrors.TypeOf(err) {
	case aierrors.TypeConfig:
		return "The AI gateway rejected our credentials. Check the server's API key configuration."
	case aierrors.TypeQuota:
		return "The AI gateway is rate limiting us. Wait a moment and try again."
	case aierrors.TypeTransport:
		return "We could not reach the AI gateway. Check your connection and try again."
	case aierrors.TypeEmptyResponse:
		return "The AI gateway returned an empty response. Try again."
	default:
		return "Something went wrong while preparing your materials. Try again."
	}
}
