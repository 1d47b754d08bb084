package main

import (
	"net/http"

	"github.com/myrjola/hotseat/internal/contexthelpers"
)

type BaseTemplateData struct {
	// CurrentPath highlights the active navigation link.
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}
