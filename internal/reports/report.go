// Package reports renders finished interviews into feedback reports and
// writes them to disk for later download.
package reports

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"
	"github.com/myrjola/hotseat/internal/catalog"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/internal/models"
)

// ErrStorage marks filesystem failures when exporting a report. Callers can
// tell a failed export apart from a failed assessment.
var ErrStorage = errors.NewSentinel("report storage failed")

// Entry is one answered question in the report.
type Entry struct {
	Position int64
	Question string
	Answer   string
	Feedback string
}

// Report is a finished interview prepared for export. It is derived from the
// stored interview alone so it can be rebuilt after a restart, and it stays
// useful even when the closing assessment call failed: the per-question
// entries are always present.
type Report struct {
	JobRole    string
	Industry   string
	Entries    []Entry
	Assessment string
	CreatedAt  time.Time
}

// New derives a report from an interview. The timestamp is a parameter so
// renders and filenames stay deterministic in tests.
func New(interview *models.Interview, at time.Time) Report {
	entries := make([]Entry, 0, len(interview.Exchanges))
	for _, exchange := range interview.Exchanges {
		entries = append(entries, Entry{
			Position: exchange.Position,
			Question: exchange.Question,
			Answer:   exchange.Answer,
			Feedback: exchange.Feedback,
		})
	}

	return Report{
		JobRole:    interview.JobRole,
		Industry:   interview.Industry,
		Entries:    entries,
		Assessment: interview.Assessment,
		CreatedAt:  at,
	}
}

// Filename returns the export filename, e.g.
// software_engineer_tech_20260102_150405.txt.
func (r Report) Filename() string {
	return fmt.Sprintf("%s_%s_%s.txt", r.JobRole, r.Industry, r.CreatedAt.Format("20060102_150405"))
}

// Render returns the plain-text export: a fixed header block, one section per
// answered question, and the closing assessment when one was generated.
func (r Report) Render() string {
	var b strings.Builder

	b.WriteString("INTERVIEW FEEDBACK REPORT\n")
	fmt.Fprintf(&b, "Job Role: %s\n", catalog.DisplayName(r.JobRole))
	fmt.Fprintf(&b, "Industry: %s\n", catalog.DisplayName(r.Industry))
	fmt.Fprintf(&b, "Date: %s\n\n", r.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString(r.body())

	return b.String()
}

func (r Report) body() string {
	var b strings.Builder

	for _, entry := range r.Entries {
		fmt.Fprintf(&b, "## Question %d\n\n%s\n\n", entry.Position+1, entry.Question)
		fmt.Fprintf(&b, "### Answer\n\n%s\n\n", entry.Answer)
		fmt.Fprintf(&b, "### Feedback\n\n%s\n\n", entry.Feedback)
	}

	if r.Assessment != "" {
		fmt.Fprintf(&b, "## Overall Assessment\n\n%s\n", r.Assessment)
	}

	return b.String()
}

// RenderPDF writes the report as a PDF document. Markdown headings become
// styled lines so the PDF stays readable without a full Markdown renderer.
func (r Report) RenderPDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Interview Feedback Report", false)
	pdf.AddPage()

	// Core PDF fonts are cp1252, translate so model output with typographic
	// quotes or accents does not render as garbage.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr("INTERVIEW FEEDBACK REPORT"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr("Job Role: "+catalog.DisplayName(r.JobRole)), "", "L", false)
	pdf.MultiCell(0, 6, tr("Industry: "+catalog.DisplayName(r.Industry)), "", "L", false)
	pdf.MultiCell(0, 6, tr("Date: "+r.CreatedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(4)

	for _, line := range strings.Split(r.body(), "\n") {
		switch {
		case strings.HasPrefix(line, "### "):
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, tr(strings.TrimPrefix(line, "### ")), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(line, "## "):
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(0, 7, tr(strings.TrimPrefix(line, "## ")), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.HasPrefix(line, "# "):
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 15)
			pdf.MultiCell(0, 8, tr(strings.TrimPrefix(line, "# ")), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		case strings.TrimSpace(line) == "":
			pdf.Ln(3)
		default:
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render report pdf")
	}

	return nil
}

// FileStore writes rendered reports under a single directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory reports are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes the plain-text render of the report and returns the path of the
// written file. Failures wrap ErrStorage.
func (s *FileStore) Save(report Report) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(errors.Join(ErrStorage, err), "create report directory",
			slog.String("dir", s.dir))
	}

	path := filepath.Join(s.dir, report.Filename())
	if err := os.WriteFile(path, []byte(report.Render()), 0o644); err != nil {
		return "", errors.Wrap(errors.Join(ErrStorage, err), "write report file",
			slog.String("path", path))
	}

	return path, nil
}
