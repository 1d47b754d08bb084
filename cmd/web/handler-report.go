package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
	"github.com/myrjola/hotseat/internal/reports"
	"github.com/myrjola/hotseat/internal/repositories"
)

type reportTemplateData struct {
	BaseTemplateData
	IndustryLabel string
	JobRoleLabel  string
	CompletedAt   string
	Entries       []reportEntry
	Assessment    string
}

type reportEntry struct {
	Number   int64
	Question string
	Answer   string
	Feedback string
}

func (app *application) interviewReport(w http.ResponseWriter, r *http.Request) {
	interview, err := app.completedSessionInterview(r)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if interview == nil {
		http.Redirect(w, r, "/interviews/current", http.StatusSeeOther)
		return
	}

	data := reportTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		IndustryLabel:    app.catalog.IndustryLabel(interview.Industry),
		JobRoleLabel:     app.catalog.JobRoleLabel(interview.JobRole),
		CompletedAt:      interview.CompletedAt.Format("2006-01-02 15:04"),
		Assessment:       interview.Assessment,
	}
	for _, exchange := range interview.Exchanges {
		data.Entries = append(data.Entries, reportEntry{
			Number:   exchange.Position + 1,
			Question: exchange.Question,
			Answer:   exchange.Answer,
			Feedback: exchange.Feedback,
		})
	}

	app.render(w, r, http.StatusOK, "report", data)
}

// downloadReport serves the exported report file. The txt format prefers the
// file written at finish time; the PDF is always rebuilt from the stored
// interview.
func (app *application) downloadReport(w http.ResponseWriter, r *http.Request) {
	interview, err := app.completedSessionInterview(r)
	if err != nil {
		if errors.Is(err, repositories.ErrNoRecord) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}
	if interview == nil {
		app.notFound(w, r)
		return
	}

	filename := filepath.Base(interview.ReportPath)
	report := reports.New(interview, *interview.CompletedAt)
	if filename == "." || filename == string(filepath.Separator) {
		filename = report.Filename()
	}

	switch r.URL.Query().Get("format") {
	case "", "txt":
		content, readErr := os.ReadFile(interview.ReportPath)
		if readErr != nil {
			// The exported file may have been cleaned up. The report rebuilds
			// from the database.
			content = []byte(report.Render())
		}
		serveDownload(w, "text/plain; charset=utf-8", filename, content)
	case "pdf":
		var buf bytes.Buffer
		if err = report.RenderPDF(&buf); err != nil {
			app.serverError(w, r, errors.Wrap(err, "render pdf"))
			return
		}
		pdfName := strings.TrimSuffix(filename, ".txt") + ".pdf"
		serveDownload(w, "application/pdf", pdfName, buf.Bytes())
	default:
		app.clientError(w, r, http.StatusBadRequest)
	}
}

// completedSessionInterview loads the session's interview and returns nil
// when it exists but is not finished yet.
func (app *application) completedSessionInterview(r *http.Request) (*models.Interview, error) {
	interview, err := app.sessionInterview(r)
	if err != nil {
		return nil, err
	}
	if !interview.Completed() {
		return nil, nil
	}
	return interview, nil
}

func serveDownload(w http.ResponseWriter, contentType, filename string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(content)))
	_, _ = w.Write(content)
}
