package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/myrjola/hotseat/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// cannedReply is what the fake gateway returns for every completion. It
// carries a Strengths heading so the feedback formatter keeps it untouched.
const cannedReply = "## Strengths\n\nClear structure and a concrete example.\n\n" +
	"## Areas for Improvement\n\nQuantify the impact of your work.\n"

// newFakeUpstream serves every external endpoint the app talks to: the
// OpenAI-compatible completions API, DuckDuckGo's HTML search, Wikipedia's
// opensearch API, and a content page the search results point at. Handlers
// build absolute URLs from r.Host so the results point back at the fake.
func newFakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 60, "completion_tokens": 40, "total_tokens": 100}
		}`, cannedReply)
	})

	mux.HandleFunc("GET /html/", func(w http.ResponseWriter, r *http.Request) {
		page := url.QueryEscape(fmt.Sprintf("http://%s/page", r.Host))
		fmt.Fprintf(w, `<html><body>
			<div class="result">
				<a class="result__a" href="//duckduckgo.com/l/?uddg=%s">Acme Corp Overview</a>
				<div class="result__snippet">Acme builds widgets for the enterprise.</div>
			</div>
		</body></html>`, page)
	})

	mux.HandleFunc("GET /w/api.php", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `["acme", ["Acme Corporation"], ["Fictional widget maker."], ["http://%s/page"]]`, r.Host)
	})

	mux.HandleFunc("GET /page", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Acme Corporation</title></head>
			<body>Acme Corporation builds enterprise widgets and values pragmatic engineering.</body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// testLookupEnv points the app at the fake upstream and keeps all state
// inside the test's temporary directory.
func testLookupEnv(t *testing.T, upstreamURL string) func(string) (string, bool) {
	t.Helper()
	tempDir := t.TempDir()
	env := map[string]string{
		"HOTSEAT_ADDR":             "localhost:0",
		"HOTSEAT_ADMIN_PORT":       ":0",
		"HOTSEAT_SQLITE_URL":       ":memory:",
		"HOTSEAT_QUESTIONS_DIR":    filepath.Join(tempDir, "questions"),
		"HOTSEAT_OUTPUT_DIR":       filepath.Join(tempDir, "output"),
		"HOTSEAT_LLM_PROVIDER":     "openai",
		"HOTSEAT_LLM_MODEL":        "test-model",
		"HOTSEAT_LLM_BASE_URL":     upstreamURL,
		"HOTSEAT_LLM_MAX_ATTEMPTS": "1",
		"HOTSEAT_LLM_TIMEOUT":      "30s",
		"HOTSEAT_SEARCH_BASE_URL":  upstreamURL,
		"OPENAI_API_KEY":           "test-key",
	}
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

// startTestServer boots the full application against a fake upstream.
func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()

	upstream := newFakeUpstream(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := e2etest.StartServer(ctx, io.Discard, testLookupEnv(t, upstream.URL), run)
	require.NoError(t, err)
	return server
}
