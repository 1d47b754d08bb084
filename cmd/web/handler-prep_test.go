package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepRoundTrip(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc, err := client.GetDoc(ctx, "/prep")
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "Interview Prep Assistant")
	assert.Contains(t, doc.Text(), "Quick mode (3-4 searches)")

	// Research runs searches and lookups against the fake upstream and saves
	// the answer as an artifact.
	doc, err = client.SubmitForm(ctx, "/prep", "/prep/research", url.Values{
		"company":  {"Acme Corp"},
		"job_role": {"Software Engineer"},
		"quick":    {"true"},
		"days":     {"7"},
	})
	require.NoError(t, err)
	result := doc.Find("#prep-result")
	assert.Contains(t, result.Find("h2").Text(), "Company Research")
	assert.Contains(t, result.Text(), "Strengths")
	assert.Contains(t, result.Text(), "Saved as")

	// The artifact shows up in the files listing and downloads as Markdown.
	doc, err = client.GetDoc(ctx, "/prep/files")
	require.NoError(t, err)
	link := doc.Find("table a").First()
	assert.Contains(t, link.Text(), "Research")
	href, ok := link.Attr("href")
	require.True(t, ok)

	resp, err := client.Get(ctx, href)
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	assert.Contains(t, string(body), "Strengths")
}

func TestPrep_missingFields(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	doc, err := client.GetDoc(ctx, "/prep")
	require.NoError(t, err)
	token, err := client.ExtractCSRFToken(doc, "/prep/research")
	require.NoError(t, err)

	form := url.Values{
		"company":    {"   "},
		"job_role":   {""},
		"csrf_token": {token},
	}
	req, err := client.NewRequest(ctx, http.MethodPost, "/prep/questions", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	doc, err = goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, doc.Find(".error").Text(), "Please fill in both the company name and the job role.")
}

func TestPrepFiles_empty(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	ctx := context.Background()

	doc, err := server.Client().GetDoc(ctx, "/prep/files")
	require.NoError(t, err)
	assert.Contains(t, doc.Text(), "No files have been generated yet.")
}

func TestPrepFiles_unknownID(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	ctx := context.Background()

	resp, err := server.Client().Get(ctx, "/prep/files/no-such-artifact")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
