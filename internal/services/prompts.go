package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yoockh/hirescreen/internal/models"
)

// Recruiter is the identity quoted to the model in the interview prompt.
type Recruiter struct {
	Name     string
	Company  string
	Position string
}

var evaluationDimensions = []string{
	"Relevance of past experience to this role",
	"Technical and domain skills listed for the job",
	"Education and continued learning",
	"Problem-solving approach",
	"Motivation for applying",
	"Understanding of the role and its responsibilities",
	"Communication clarity",
	"Culture and team fit",
}

const minQuestions = 10

const chatReplyContract = `Reply ONLY with a JSON object of exactly this shape and nothing else:
{"message": "<what you say to the candidate>", "isFinished": <true|false>}`

// ReinforcementInstruction closes every chat turn so the model keeps the JSON contract.
const ReinforcementInstruction = "Remember: respond with a single raw JSON object {\"message\": string, \"isFinished\": boolean}. " +
	"No markdown, no code fences, no text outside the JSON. Ask only one short question."

func BuildInterviewPrompt(job *models.Job, rec Recruiter) string {
	var b strings.Builder
	b.WriteString("You are an AI interviewer conducting a first-round screening interview on behalf of a recruiter.\n\n")

	b.WriteString("Job details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", job.Title)
	writeOptional(&b, "Description", job.Description)
	writeList(&b, "Required skills", job.Skills)
	writeOptional(&b, "Location", job.Location)
	if job.Deadline != nil {
		fmt.Fprintf(&b, "- Application deadline: %s\n", job.Deadline.UTC().Format(time.DateOnly))
	}
	writeList(&b, "Responsibilities", job.Responsibilities)
	writeList(&b, "Benefits", job.Benefits)
	writeList(&b, "Requirements", job.Requirements)

	b.WriteString("\nRecruiter:\n")
	writeOptional(&b, "Name", rec.Name)
	writeOptional(&b, "Company", rec.Company)
	writeOptional(&b, "Position", rec.Position)

	b.WriteString("\nInstructions:\n")
	b.WriteString("1. Greet the candidate briefly and introduce the role.\n")
	b.WriteString("2. Ask exactly one short question per turn and wait for the answer.\n")
	b.WriteString("3. Over the interview, cover all of these dimensions:\n")
	for i, d := range evaluationDimensions {
		fmt.Fprintf(&b, "   %d. %s\n", i+1, d)
	}
	fmt.Fprintf(&b, "4. Ask at least %d questions before concluding.\n", minQuestions)
	b.WriteString("5. When you are done, thank the candidate and set isFinished to true. Otherwise isFinished is false.\n\n")
	b.WriteString(chatReplyContract)
	return b.String()
}

func writeOptional(b *strings.Builder, label, val string) {
	if val = strings.TrimSpace(val); val != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, val)
	}
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(items, ", "))
}

func speakerLabel(s models.Sender) string {
	switch s {
	case models.SenderAI:
		return "AI"
	case models.SenderCandidate:
		return "Candidate"
	default:
		return string(s)
	}
}

// FormatTranscript renders msgs as "<Role>: <message>" lines in the given order.
func FormatTranscript(msgs []models.ChatMessage) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, speakerLabel(m.Sender)+": "+m.Message)
	}
	return strings.Join(lines, "\n")
}

func BuildReportPrompt(transcript string) string {
	return "You are an experienced recruiter evaluating a screening interview.\n" +
		"Read the transcript below and rate the candidate from 0 to 100, " +
		"then write a summary of at most 100 words covering strengths and weaknesses.\n\n" +
		"Transcript:\n" + transcript + "\n\n" +
		"Reply ONLY with a JSON object of exactly this shape and nothing else:\n" +
		`{"score": <integer 0-100>, "summary": "<at most 100 words>"}`
}
