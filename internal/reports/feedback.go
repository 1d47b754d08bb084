package reports

import (
	"regexp"
	"strings"
)

// Section boundaries inside free-form feedback text. The model is asked for
// five named sections but does not always emit Markdown headings, so each
// pattern captures from a section cue up to the next known cue.
var (
	contentPattern       = regexp.MustCompile(`(?s)(?:Content relevance|Content|Relevance)(.*?)(?:Technical|Communication|Strengths|Areas|$)`)
	technicalPattern     = regexp.MustCompile(`(?s)(?:Technical accuracy|Technical)(.*?)(?:Communication|Strengths|Areas|$)`)
	communicationPattern = regexp.MustCompile(`(?s)(?:Communication clarity|Communication)(.*?)(?:Strengths|Areas|$)`)
	strengthsPattern     = regexp.MustCompile(`(?s)(?:Strengths)(.*?)(?:Areas|Improvement|$)`)
	improvementPattern   = regexp.MustCompile(`(?s)(?:Areas for improvement|Improvement|Weaknesses|Areas)(.*?)$`)
)

const feedbackHeader = "# Interview Response Feedback\n\n"

// FormatFeedback normalises raw model feedback into Markdown with one heading
// per evaluation criterion. Feedback that already carries a Strengths heading
// is returned untouched, and text where no section cue matches is returned
// under a plain header rather than dropped.
func FormatFeedback(raw string) string {
	if strings.Contains(raw, "## Strengths") || strings.Contains(raw, "### Strengths") {
		return raw
	}

	var b strings.Builder
	b.WriteString(feedbackHeader)

	appendSection(&b, "Content Relevance and Completeness", contentPattern, raw)
	appendSection(&b, "Technical Accuracy", technicalPattern, raw)
	appendSection(&b, "Communication Clarity", communicationPattern, raw)
	appendSection(&b, "Strengths", strengthsPattern, raw)
	appendSection(&b, "Areas for Improvement", improvementPattern, raw)

	if b.Len() == len(feedbackHeader) {
		return feedbackHeader + raw
	}

	return b.String()
}

func appendSection(b *strings.Builder, title string, pattern *regexp.Regexp, raw string) {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return
	}

	body := strings.TrimSpace(match[1])
	if body == "" {
		return
	}

	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}
