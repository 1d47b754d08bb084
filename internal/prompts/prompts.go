// Package prompts builds the completion prompts for the interview coach and
// the preparation assistant. Each prompt is a typed struct so that callers
// cannot forget a field, and tests can assert that every field ends up in the
// rendered text.
package prompts

import (
	"fmt"
	"strings"
)

// interviewerSystem frames the model as an interviewer for the given role and
// industry. Both answer feedback and the closing assessment use it.
func interviewerSystem(jobRole, industry string) string {
	return fmt.Sprintf(`You are an expert interviewer for %[1]s positions in the %[2]s industry.
Your goal is to ask relevant questions, evaluate responses, and provide detailed feedback.
Focus on both technical accuracy and communication skills in your assessment.
Be fair, objective, and thorough in your evaluation.

When providing feedback:
1. Highlight strengths and areas for improvement
2. Provide specific examples from the response
3. Offer actionable recommendations
4. Maintain a constructive and supportive tone

For the %[1]s role in %[2]s, focus on these key areas:
- Technical knowledge specific to the role
- Problem-solving approach
- Communication clarity
- Past experience relevance
- Cultural fit and soft skills

Structure your feedback with clear sections:
- Content Relevance and Completeness
- Technical Accuracy
- Communication Clarity
- Strengths
- Areas for Improvement`, jobRole, industry)
}

// Feedback asks for an evaluation of a single interview answer.
type Feedback struct {
	JobRole  string
	Industry string
	Question string
	Answer   string
}

func (p Feedback) System() string {
	return interviewerSystem(p.JobRole, p.Industry)
}

func (p Feedback) Build() string {
	return fmt.Sprintf(`Analyze this interview response for a %s position in %s.

Question: %s

Response: %s

Provide detailed feedback on:
1. Content relevance and completeness
2. Technical accuracy
3. Communication clarity
4. Strengths
5. Areas for improvement

Format your feedback with clear sections for each of the above points.`, p.JobRole, p.Industry, p.Question, p.Answer)
}

// ClosingAssessment asks for an overall report across the whole interview.
// ExchangesJSON carries the questions, answers, and per-answer feedback as a
// JSON document.
type ClosingAssessment struct {
	JobRole       string
	Industry      string
	ExchangesJSON string
}

func (p ClosingAssessment) System() string {
	return interviewerSystem(p.JobRole, p.Industry)
}

func (p ClosingAssessment) Build() string {
	return fmt.Sprintf(`Generate a comprehensive interview feedback report for a %s position in %s.

Here are all the questions, responses, and individual feedback from the interview:

%s

The report should include:
1. Overall assessment
2. Key strengths observed
3. Priority areas for improvement
4. Specific technical knowledge gaps (if any)
5. Communication style feedback
6. Recommended preparation strategies for future interviews
7. Resources for improvement

Format the report in a professional and constructive manner with Markdown formatting.`, p.JobRole, p.Industry, p.ExchangesJSON)
}

// assistantSystem frames the model as a preparation assistant working from
// gathered web notes.
const assistantSystem = `You are an interview preparation assistant.
Your task is to provide comprehensive, specific, and actionable interview preparation material.
Use clear Markdown structure with headings, lists, and well-formatted sections.
Ground your answer in the research notes when they are provided, and be upfront when information is uncertain or missing.
Generic advice has very little value. Focus on specificity and practicality.`

const quickInstruction = `Keep the output focused and concise. Prioritize quality over quantity and cover only the most important points.`

func notesBlock(context string) string {
	if strings.TrimSpace(context) == "" {
		return "No research notes are available. Rely on your existing knowledge and say so where you are unsure."
	}

	return "Here are research notes gathered from the web:\n\n" + context
}

// CompanyResearch asks for an employer research report.
type CompanyResearch struct {
	Company string
	Context string
	Quick   bool
}

func (p CompanyResearch) System() string { return assistantSystem }

func (p CompanyResearch) Build() string {
	var b strings.Builder

	fmt.Fprintf(&b, `Research %s as a target employer and write a preparation report for an interview candidate.

%s

The report must include these key sections:
- Company Overview & History
- Products and Services
- Company Culture & Values
- Recent News & Developments
- Interview Process & Known Questions
- Key Talking Points for Interview

Additional requirements:
1. Format the research as a professional report with clear sections
2. Include direct quotes and statistics where available
3. Analyze the company culture and interview process
4. Focus on information that would be directly useful in an interview`, p.Company, notesBlock(p.Context))

	if p.Quick {
		b.WriteString("\n\n")
		b.WriteString(quickInstruction)
	}

	return b.String()
}

// InterviewQuestions asks for a question bank tailored to a role at a company.
type InterviewQuestions struct {
	JobRole string
	Company string
	Context string
	Quick   bool
}

func (p InterviewQuestions) System() string { return assistantSystem }

func (p InterviewQuestions) Build() string {
	var b strings.Builder

	fmt.Fprintf(&b, `Generate a comprehensive set of interview questions with sample answers for a %[1]s position at %[2]s.

%[3]s

The questions should be organized into these categories:
- Technical Skills (specific to %[1]s)
- Behavioral/Soft Skills
- Company-Specific Knowledge
- Role-Specific Scenarios
- Questions to Ask the Interviewer

Additional requirements:
1. Generate high-quality questions with sample answers
2. Include a section on "How to Prepare" for each category
3. For technical questions, include practical scenarios
4. Tailor the questions to %[2]s's interview process and the %[1]s position`, p.JobRole, p.Company, notesBlock(p.Context))

	if p.Quick {
		b.WriteString("\n\n")
		b.WriteString(quickInstruction)
	}

	return b.String()
}

// PrepPlan asks for a day-by-day preparation plan.
type PrepPlan struct {
	JobRole string
	Company string
	Days    int
	Context string
	Quick   bool
}

func (p PrepPlan) System() string { return assistantSystem }

func (p PrepPlan) Build() string {
	var b strings.Builder

	fmt.Fprintf(&b, `Create a practical interview preparation plan for a %[1]s position at %[2]s that can be implemented in %[3]d days.

%[4]s

The preparation plan should include these components:
- Daily Schedule with specific activities
- Technical Skills Review Guide
- Company Knowledge Preparation
- Behavioral Questions Preparation
- Interview Day Preparation

Additional requirements:
1. Include specific daily tasks with reasonable time allocations
2. Provide a brief "Interview Day Checklist"
3. Include a "Key Talking Points" section for quick review
4. Focus on the most important technical topics to review
5. Tailor the plan to %[2]s's interview process and the %[1]s position`, p.JobRole, p.Company, p.Days, notesBlock(p.Context))

	if p.Quick {
		b.WriteString("\n\n")
		b.WriteString(quickInstruction)
	}

	return b.String()
}
