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

func TestInterviewRoundTrip(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	// Start a three-question interview.
	doc, err := client.SubmitForm(ctx, "/", "/interviews", url.Values{
		"industry":       {"tech"},
		"job_role":       {"software_engineer"},
		"question_count": {"3"},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h2").Text(), "Question 1 of 3")
	assert.NotEmpty(t, doc.Find("p.question").Text())

	// An empty answer is rejected without burning the turn.
	doc, err = client.SubmitForm(ctx, "/interviews/current", "/interviews/current/answers", url.Values{
		"answer": {"   "},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".error").Text(), "Please provide an answer before submitting.")
	assert.Contains(t, doc.Find("h2").Text(), "Question 1 of 3")

	// A real answer gets feedback and advances to the next question.
	doc, err = client.SubmitForm(ctx, "/interviews/current", "/interviews/current/answers", url.Values{
		"answer": {"I led the migration of our monolith to services and cut deploy times in half."},
	})
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".feedback h2").Text(), "Feedback on Previous Answer")
	assert.Contains(t, doc.Find(".feedback").Text(), "Strengths")
	assert.Contains(t, doc.Find("h2").Text(), "Question 2 of 3")

	// The home page offers to resume the unfinished interview.
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Contains(t, doc.Find(".resume").Text(), "You have answered 1 of 3 questions")

	// Finishing exports the report and shows it, even with questions left.
	doc, err = client.SubmitForm(ctx, "/interviews/current", "/interviews/current/finish", url.Values{})
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "Interview Complete!")
	assert.Contains(t, doc.Text(), "Here's your comprehensive feedback report:")
	assert.Contains(t, doc.Find(".report-entry").Text(), "Question 1")
	assert.Contains(t, doc.Text(), "Overall Assessment")

	// The interview page now leads to the report, and home no longer resumes.
	doc, err = client.GetDoc(ctx, "/interviews/current")
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "Interview Complete!")

	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Zero(t, doc.Find(".resume").Length())
}

func TestInterview_requiresSession(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	// Without an interview the current page falls back to the setup form.
	doc, err := client.GetDoc(ctx, "/interviews/current")
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h2").Text(), "Interview Settings")
}

func TestSubmitAnswer_htmxFragment(t *testing.T) {
	t.Parallel()

	server := startTestServer(t)
	client := server.Client()
	ctx := context.Background()

	_, err := client.SubmitForm(ctx, "/", "/interviews", url.Values{
		"industry":       {"tech"},
		"job_role":       {"software_engineer"},
		"question_count": {"3"},
	})
	require.NoError(t, err)

	doc, err := client.GetDoc(ctx, "/interviews/current")
	require.NoError(t, err)
	token, err := client.ExtractCSRFToken(doc, "/interviews/current/answers")
	require.NoError(t, err)

	form := url.Values{
		"answer":     {"I profiled the hot path and removed the N+1 queries."},
		"csrf_token": {token},
	}
	req, err := client.NewRequest(ctx, http.MethodPost, "/interviews/current/answers", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fragment, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	// The swap target comes back without the page chrome.
	assert.Equal(t, 1, fragment.Find("#interview-panel").Length())
	assert.Zero(t, fragment.Find("header").Length())
	assert.Contains(t, fragment.Text(), "Question 2 of 3")
}
