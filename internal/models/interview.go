package models

import "time"

// Interview holds the state of one practice interview. It is an explicit value
// loaded per request; the browser session only carries its ID.
type Interview struct {
	ID            string
	JobRole       string
	Industry      string
	QuestionCount int
	// Questions are the questions picked at interview start, in asking order.
	Questions []string
	// Exchanges are the answered turns in answer order. An exchange exists only
	// for turns whose feedback call succeeded.
	Exchanges []Exchange
	// Assessment is the closing assessment generated when the interview is
	// finished. Empty when the assessment call failed or has not run yet.
	Assessment  string
	ReportPath  string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Exchange is one answered interview turn.
type Exchange struct {
	// Position is the dense zero-based answer order within the interview.
	Position   int64
	Question   string
	Answer     string
	Feedback   string
	TokensUsed int64
	CreatedAt  time.Time
}

// CurrentQuestion returns the next unanswered question and false when every
// question has been answered.
func (i *Interview) CurrentQuestion() (string, bool) {
	answered := len(i.Exchanges)
	if answered >= len(i.Questions) {
		return "", false
	}
	return i.Questions[answered], true
}

// Answered reports how many questions have received feedback.
func (i *Interview) Answered() int {
	return len(i.Exchanges)
}

// AllAnswered reports whether every picked question has an exchange.
func (i *Interview) AllAnswered() bool {
	return len(i.Exchanges) >= len(i.Questions)
}

// Completed reports whether the interview has been finished and exported.
func (i *Interview) Completed() bool {
	return i.CompletedAt != nil
}
