package webfetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/hotseat/internal/webfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "hotseat")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html>
<head><title>  Acme Corp - About  </title><style>body { color: red }</style></head>
<body>
  <script>console.log("tracking")</script>
  <h1>About Acme</h1>
  <p>Acme builds    rocket skates
  and portable holes.</p>
</body>
</html>`))
	}))
	t.Cleanup(server.Close)

	client := webfetch.NewClient(5 * time.Second)
	snapshot, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, snapshot.URL)
	assert.Equal(t, "Acme Corp - About", snapshot.Title)
	assert.Contains(t, snapshot.Text, "About Acme Acme builds rocket skates and portable holes.")
	assert.NotContains(t, snapshot.Text, "tracking")
	assert.NotContains(t, snapshot.Text, "color: red")
}

func TestClient_Fetch_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr: "unexpected page status",
		},
		{
			name: "not html",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.4"))
			},
			wantErr: "unsupported content type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			client := webfetch.NewClient(5 * time.Second)
			_, err := client.Fetch(context.Background(), server.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDuckDuckGo_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		assert.Equal(t, "Acme Corp", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body>
<div class="result result--ad">
  <h2 class="result__title"><a class="result__a" href="https://ads.example.com">Sponsored</a></h2>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.example.com%2Fabout&amp;rut=abc">About Acme Corp</a>
  </h2>
  <a class="result__snippet" href="#">Acme builds rocket skates.</a>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="https://example.com/reviews">Acme interview reviews</a>
  </h2>
  <a class="result__snippet" href="#">Five rounds, heavy on systems design.</a>
</div>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fculture">Acme culture</a>
  </h2>
</div>
</body></html>`))
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.DuckDuckGo{BaseURL: server.URL}
	results, err := searcher.Search(context.Background(), "Acme Corp", 2)
	require.NoError(t, err)

	// Capped at two results, ad skipped, redirect links unwrapped.
	require.Len(t, results, 2)
	assert.Equal(t, "About Acme Corp", results[0].Title)
	assert.Equal(t, "https://acme.example.com/about", results[0].URL)
	assert.Equal(t, "Acme builds rocket skates.", results[0].Snippet)
	assert.Equal(t, "Acme interview reviews", results[1].Title)
	assert.Equal(t, "https://example.com/reviews", results[1].URL)
}

func TestDuckDuckGo_Search_failure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.DuckDuckGo{BaseURL: server.URL}
	_, err := searcher.Search(context.Background(), "Acme Corp", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duckduckgo search failed")
}

func TestWikipedia_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/w/api.php", r.URL.Path)
		assert.Equal(t, "opensearch", r.URL.Query().Get("action"))
		assert.Equal(t, "Acme Corp", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			"Acme Corp",
			["Acme Corporation", "Acme (disambiguation)"],
			["Fictional company", ""],
			["https://en.wikipedia.org/wiki/Acme_Corporation", "https://en.wikipedia.org/wiki/Acme"]
		]`))
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.Wikipedia{BaseURL: server.URL}
	results, err := searcher.Search(context.Background(), "Acme Corp", 5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Acme Corporation", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Acme_Corporation", results[0].URL)
	assert.Equal(t, "Fictional company", results[0].Snippet)
	assert.Equal(t, "Acme (disambiguation)", results[1].Title)
}

func TestWikipedia_Search_malformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["only", ["two"]]`))
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.Wikipedia{BaseURL: server.URL}
	_, err := searcher.Search(context.Background(), "Acme Corp", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed wikipedia response")
}

func TestGoogle_Search(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customsearch/v1", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))
		assert.Equal(t, "Acme Corp interview process", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"title": "Acme careers", "link": "https://acme.example.com/careers", "snippet": "Join Acme."},
				{"title": "Acme interviews", "link": "https://example.com/reviews", "snippet": "Five rounds."}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.Google{BaseURL: server.URL, APIKey: "test-key", EngineID: "test-cx"}
	results, err := searcher.Search(context.Background(), "Acme Corp interview process", 5)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Acme careers", results[0].Title)
	assert.Equal(t, "https://acme.example.com/careers", results[0].URL)
	assert.Equal(t, "Join Acme.", results[0].Snippet)
}

func TestGoogle_Search_rejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quota exceeded"}}`))
	}))
	t.Cleanup(server.Close)

	searcher := &webfetch.Google{BaseURL: server.URL, APIKey: "test-key", EngineID: "test-cx"}
	_, err := searcher.Search(context.Background(), "Acme Corp", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google search rejected")
}

func TestCollapseWhitespaceThroughFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>  a \n\n\t b c  </body></html>"))
	}))
	t.Cleanup(server.Close)

	client := webfetch.NewClient(time.Second)
	snapshot, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "a b c", snapshot.Text)
	assert.False(t, strings.Contains(snapshot.Text, "\n"))
}
