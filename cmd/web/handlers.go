package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/myrjola/hotseat/internal/contexthelpers"
	"github.com/myrjola/hotseat/internal/errors"
	"github.com/myrjola/hotseat/ui"
)

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to a directory inside ui/templates/pages. It has to include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	files := []string{
		"templates/base.gohtml",
	}

	pageTemplateFiles, err := fs.Glob(ui.Files, fmt.Sprintf("templates/pages/%s/*.gohtml", pageName))
	if err != nil {
		return nil, errors.Wrap(err, "glob page template files", slog.String("page", pageName))
	}
	files = append(files, pageTemplateFiles...)

	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	return template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	}).ParseFS(ui.Files, files...)
}

// render writes the page wrapped in the base layout.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.renderTemplate(w, r, status, page, "base", data)
}

// renderFragment writes one named template from the page's set. htmx swaps
// use it to replace a part of the page instead of reloading all of it.
func (app *application) renderFragment(w http.ResponseWriter, r *http.Request, status int, page string, name string, data any) {
	app.renderTemplate(w, r, status, page, name, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(page); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", page)))
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec, we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec, we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("template", page), slog.String("name", name)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
