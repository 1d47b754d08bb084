package main

import (
	"net/http"

	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/repositories"
)

// interviewIDSessionKey holds the ID of the visitor's interview. The session
// carries only the ID; the interview itself always loads from the database.
const interviewIDSessionKey = "interviewID"

// sessionInterview loads the interview the session points at. It returns
// repositories.ErrNoRecord when the session has no interview or the stored ID
// no longer matches a row.
func (app *application) sessionInterview(r *http.Request) (*models.Interview, error) {
	id := app.sessionManager.GetString(r.Context(), interviewIDSessionKey)
	if id == "" {
		return nil, errors.Wrap(repositories.ErrNoRecord, "no interview in session")
	}

	interview, err := app.interviews.Get(r.Context(), id)
	if err != nil {
		return nil, errors.Wrap(err, "load session interview")
	}

	return interview, nil
}
