// Package webfetch gathers raw material for company research from the public
// web. Searchers return leads for a query and the fetcher turns a page into
// plain text that fits in a prompt.
package webfetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/hotseat/internal/errors"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "hotseat/1.0 (+https://github.com/myrjola/hotseat)"

	// maxBodyBytes caps how much of a response is read. Pages beyond this are
	// cut off rather than rejected.
	maxBodyBytes = 2 << 20

	// maxTextRunes caps the extracted text per page so that a single long page
	// cannot crowd everything else out of the prompt.
	maxTextRunes = 8000
)

// Snapshot is the readable content of one fetched page.
type Snapshot struct {
	URL   string
	Title string
	Text  string
}

// Fetcher turns a page URL into readable text.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Snapshot, error)
}

// Client fetches pages over HTTP and extracts their text content.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  defaultUserAgent,
	}
}

// Fetch downloads the page and strips it down to title and text. Scripts,
// styles, and markup are removed and whitespace is collapsed.
func (c *Client) Fetch(ctx context.Context, pageURL string) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "create page request", slog.String("url", pageURL))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "fetch page", slog.String("url", pageURL))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, errors.New("unexpected page status",
			slog.String("url", pageURL), slog.Int("status", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return Snapshot{}, errors.New("unsupported content type",
			slog.String("url", pageURL), slog.String("content_type", contentType))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "parse page", slog.String("url", pageURL))
	}

	doc.Find("script, style, noscript, svg, iframe").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := collapseWhitespace(doc.Find("body").Text())
	if runes := []rune(text); len(runes) > maxTextRunes {
		text = string(runes[:maxTextRunes])
	}

	return Snapshot{
		URL:   pageURL,
		Title: title,
		Text:  text,
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
