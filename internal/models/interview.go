package models

import "time"

type Sender string

const (
	SenderAI        Sender = "ai"
	SenderCandidate Sender = "candidate"
)

func (s Sender) Valid() bool {
	switch s {
	case SenderAI, SenderCandidate:
		return true
	default:
		return false
	}
}

// InterviewState is derived, never stored.
type InterviewState string

const (
	InterviewNotStarted InterviewState = "not_started"
	InterviewActive     InterviewState = "active"
	InterviewCompleted  InterviewState = "completed"
)

type InterviewSession struct {
	ID            string     `gorm:"column:id;size:36;primaryKey" json:"id"`
	ApplicationID string     `gorm:"column:application_id;size:36;uniqueIndex" json:"application_id"`
	SystemPrompt  string     `gorm:"column:system_prompt" json:"-"`
	StartedAt     time.Time  `gorm:"column:started_at" json:"started_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at"`

	Messages []ChatMessage `gorm:"foreignKey:InterviewID;references:ID" json:"messages,omitempty"`
}

func (InterviewSession) TableName() string { return "interview_sessions" }

func (s *InterviewSession) State() InterviewState {
	switch {
	case s == nil:
		return InterviewNotStarted
	case s.CompletedAt != nil:
		return InterviewCompleted
	default:
		return InterviewActive
	}
}

type ChatMessage struct {
	ID          string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	InterviewID string    `gorm:"column:interview_id;size:36;index:idx_messages_interview_ts,priority:1" json:"interview_id"`
	Sender      Sender    `gorm:"column:sender" json:"sender"`
	Message     string    `gorm:"column:message" json:"message"`
	Timestamp   time.Time `gorm:"column:timestamp;index:idx_messages_interview_ts,priority:2" json:"timestamp"`
}

func (ChatMessage) TableName() string { return "chat_messages" }
