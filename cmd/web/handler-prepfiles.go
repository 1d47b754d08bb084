package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/repositories"
)

type prepFilesTemplateData struct {
	BaseTemplateData
	Artifacts []artifactRow
}

type artifactRow struct {
	ID      string
	Name    string
	Kind    string
	Company string
	JobRole string
	Created string
}

func (app *application) prepFiles(w http.ResponseWriter, r *http.Request) {
	artifacts, err := app.artifacts.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := prepFilesTemplateData{BaseTemplateData: newBaseTemplateData(r)}
	for _, artifact := range artifacts {
		data.Artifacts = append(data.Artifacts, artifactRow{
			ID:      artifact.ID,
			Name:    filepath.Base(artifact.Path),
			Kind:    catalog.DisplayName(string(artifact.Kind)),
			Company: artifact.Company,
			JobRole: artifact.JobRole,
			Created: artifact.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	app.render(w, r, http.StatusOK, "prepfiles", data)
}

func (app *application) downloadPrepFile(w http.ResponseWriter, r *http.Request) {
	artifact, err := app.artifacts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	// Serve only files sitting directly in the output directory. The index is
	// the sole writer of artifact rows, this guards against a tampered
	// database turning the endpoint into a file reader.
	if !app.withinOutputDir(artifact.Path) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "artifact path outside output directory",
			slog.String("artifact_id", artifact.ID), slog.String("path", artifact.Path))
		app.notFound(w, r)
		return
	}

	content, err := os.ReadFile(artifact.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(artifact.Path, ".md") {
		contentType = "text/markdown; charset=utf-8"
	}
	serveDownload(w, contentType, filepath.Base(artifact.Path), content)
}

func (app *application) withinOutputDir(path string) bool {
	absDir, err := filepath.Abs(app.config.OutputDir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return absPath == filepath.Join(absDir, filepath.Base(absPath))
}
