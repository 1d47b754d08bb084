package webfetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/hotseat/internal/errors"
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher finds pages worth reading for a query. Implementations are safe
// for concurrent use.
type Searcher interface {
	// Name identifies the provider in logs.
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// searchGet performs a GET against a search API and returns the body and
// status. The error covers transport and read failures only; providers decide
// what a non-200 status means because some APIs put the real reason in the
// body.
func searchGet(ctx context.Context, httpClient *http.Client, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, 0, errors.Wrap(err, "create search request")
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "search request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, errors.Wrap(err, "read search response")
	}

	return body, resp.StatusCode, nil
}

func orDefaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: defaultTimeout}
}

// DuckDuckGo scrapes the HTML endpoint, the one without JavaScript that is
// also served to text browsers. It needs no API key. The zero value is ready
// to use.
type DuckDuckGo struct {
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string
}

func (p *DuckDuckGo) Name() string { return "duckduckgo" }

func (p *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://html.duckduckgo.com"
	}
	searchURL := fmt.Sprintf("%s/html/?q=%s", base, url.QueryEscape(query))

	body, status, err := searchGet(ctx, orDefaultClient(p.HTTPClient), searchURL)
	if err != nil {
		return nil, errors.Wrap(err, "duckduckgo search", slog.String("query", query))
	}
	if status != http.StatusOK {
		return nil, errors.New("duckduckgo search failed",
			slog.Int("status", status), slog.String("query", query))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse duckduckgo response", slog.String("query", query))
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		anchor := s.Find(".result__a").First()
		link := resolveDuckDuckGoHref(anchor.AttrOr("href", ""))
		title := strings.TrimSpace(anchor.Text())
		if link == "" || title == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     link,
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		})
		return len(results) < maxResults
	})

	return results, nil
}

// resolveDuckDuckGoHref unwraps the redirect links of the HTML endpoint. The
// target URL travels percent-encoded in the uddg query parameter.
func resolveDuckDuckGoHref(href string) string {
	if href == "" {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	return ""
}

// Wikipedia searches article titles via the opensearch API. The zero value is
// ready to use.
type Wikipedia struct {
	HTTPClient *http.Client
	BaseURL    string
}

func (p *Wikipedia) Name() string { return "wikipedia" }

func (p *Wikipedia) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://en.wikipedia.org"
	}
	searchURL := fmt.Sprintf("%s/w/api.php?action=opensearch&search=%s&limit=%d&namespace=0&format=json",
		base, url.QueryEscape(query), maxResults)

	body, status, err := searchGet(ctx, orDefaultClient(p.HTTPClient), searchURL)
	if err != nil {
		return nil, errors.Wrap(err, "wikipedia search", slog.String("query", query))
	}
	if status != http.StatusOK {
		return nil, errors.New("wikipedia search failed",
			slog.Int("status", status), slog.String("query", query))
	}

	// Opensearch replies with a positional array:
	// [query, [titles], [descriptions], [urls]].
	var payload []json.RawMessage
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "parse wikipedia response", slog.String("query", query))
	}
	if len(payload) < 4 {
		return nil, errors.New("malformed wikipedia response", slog.String("query", query))
	}

	var titles, descriptions, urls []string
	if err = json.Unmarshal(payload[1], &titles); err != nil {
		return nil, errors.Wrap(err, "parse wikipedia titles")
	}
	if err = json.Unmarshal(payload[2], &descriptions); err != nil {
		return nil, errors.Wrap(err, "parse wikipedia descriptions")
	}
	if err = json.Unmarshal(payload[3], &urls); err != nil {
		return nil, errors.Wrap(err, "parse wikipedia urls")
	}

	results := make([]Result, 0, len(titles))
	for i, title := range titles {
		if i >= len(urls) || len(results) >= maxResults {
			break
		}
		result := Result{Title: title, URL: urls[i]}
		if i < len(descriptions) {
			result.Snippet = descriptions[i]
		}
		results = append(results, result)
	}
	return results, nil
}

// Google searches via the Custom Search JSON API. It needs an API key and a
// search engine ID, so it is only wired up when both are configured.
type Google struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	EngineID   string
}

func (p *Google) Name() string { return "google" }

type googleResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (p *Google) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	base := p.BaseURL
	if base == "" {
		base = "https://www.googleapis.com"
	}
	searchURL := fmt.Sprintf("%s/customsearch/v1?key=%s&cx=%s&q=%s&num=%d",
		base, url.QueryEscape(p.APIKey), url.QueryEscape(p.EngineID), url.QueryEscape(query), maxResults)

	body, status, err := searchGet(ctx, orDefaultClient(p.HTTPClient), searchURL)
	if err != nil {
		return nil, errors.Wrap(err, "google search", slog.String("query", query))
	}

	// Rejections carry a JSON error payload. Prefer its message over the bare
	// status code.
	var google googleResponse
	if jsonErr := json.Unmarshal(body, &google); jsonErr != nil {
		if status != http.StatusOK {
			return nil, errors.New("google search failed",
				slog.Int("status", status), slog.String("query", query))
		}
		return nil, errors.Wrap(jsonErr, "parse google response", slog.String("query", query))
	}
	if google.Error != nil {
		return nil, errors.New("google search rejected",
			slog.Int("code", google.Error.Code), slog.String("message", google.Error.Message))
	}

	results := make([]Result, 0, len(google.Items))
	for _, item := range google.Items {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return results, nil
}
