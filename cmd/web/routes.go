package main

import (
	"net/http"
	"time"

	"github.com/donseba/go-htmx/middleware"
	"github.com/justinas/alice"
	"github.com/myrjola/hotseat/ui"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static", http.FileServerFS(ui.Static()))))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	// Dynamic pages carry the session, CSRF protection, htmx request
	// detection, and the template context values.
	dynamic := alice.New(app.sessionManager.LoadAndSave, noSurf, middleware.MiddleWare, commonContext)

	mux.Handle("GET /{$}", dynamic.ThenFunc(app.home))
	mux.Handle("POST /interviews", dynamic.ThenFunc(app.createInterview))
	mux.Handle("GET /interviews/current", dynamic.ThenFunc(app.currentInterview))
	mux.Handle("POST /interviews/current/answers", dynamic.ThenFunc(app.submitAnswer))
	mux.Handle("POST /interviews/current/finish", dynamic.ThenFunc(app.finishInterview))
	mux.Handle("GET /interviews/current/report", dynamic.ThenFunc(app.interviewReport))
	mux.Handle("GET /interviews/current/report/download", dynamic.ThenFunc(app.downloadReport))

	mux.Handle("GET /prep", dynamic.ThenFunc(app.prep))
	mux.Handle("POST /prep/research", dynamic.ThenFunc(app.prepResearch))
	mux.Handle("POST /prep/questions", dynamic.ThenFunc(app.prepQuestions))
	mux.Handle("POST /prep/plan", dynamic.ThenFunc(app.prepPlan))
	mux.Handle("GET /prep/files", dynamic.ThenFunc(app.prepFiles))
	mux.Handle("GET /prep/files/{id}", dynamic.ThenFunc(app.downloadPrepFile))

	standard := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders)

	// The timeout sits above the mux so that a stuck LLM call still produces
	// a response before the server's write timeout closes the connection.
	return standard.Then(timeoutHandler(mux, app.config.LLMTimeout+5*time.Second))
}
