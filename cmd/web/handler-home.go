package main

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/repositories"
)

type homeTemplateData struct {
	BaseTemplateData
	Industries       []catalog.Option
	JobRoles         []catalog.Option
	Questions        catalog.Bounds
	SelectedIndustry string
	SelectedJobRole  string
	SelectedCount    int
	// Active is the unfinished interview of this session, if any.
	Active *models.Interview
	Error  string
}

func (app *application) newHomeTemplateData(r *http.Request) homeTemplateData {
	return homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Industries:       app.catalog.Industries,
		JobRoles:         app.catalog.JobRoles,
		Questions:        app.catalog.Questions,
		SelectedCount:    app.catalog.Questions.Default,
	}
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := app.newHomeTemplateData(r)

	interview, err := app.sessionInterview(r)
	switch {
	case err == nil:
		if !interview.Completed() {
			data.Active = interview
		}
	case !errors.Is(err, repositories.ErrNoRecord):
		app.serverError(w, r, err)
		return
	}

	app.render(w, r, http.StatusOK, "home", data)
}

// createInterview starts a fresh interview from the setup form. A session can
// hold one interview at a time; starting a new one replaces the old pointer.
func (app *application) createInterview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	industry := r.PostForm.Get("industry")
	jobRole := r.PostForm.Get("job_role")
	count, _ := strconv.Atoi(r.PostForm.Get("question_count"))

	if !app.catalog.ValidIndustry(industry) ||
		!app.catalog.ValidJobRole(jobRole) ||
		!app.catalog.ValidQuestionCount(count) {
		data := app.newHomeTemplateData(r)
		data.SelectedIndustry = industry
		data.SelectedJobRole = jobRole
		if app.catalog.ValidQuestionCount(count) {
			data.SelectedCount = count
		}
		data.Error = "Please pick an industry, job role, and question count from the offered options."
		app.render(w, r, http.StatusUnprocessableEntity, "home", data)
		return
	}

	picked, err := app.questions.Pick(industry, jobRole, count)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	interview := &models.Interview{
		ID:            uuid.New().String(),
		JobRole:       jobRole,
		Industry:      industry,
		QuestionCount: len(picked),
		Questions:     picked,
	}
	if err = app.interviews.Create(r.Context(), interview); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), interviewIDSessionKey, interview.ID)

	http.Redirect(w, r, "/interviews/current", http.StatusSeeOther)
}
