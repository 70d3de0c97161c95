package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArchiveReason string

const (
	ArchiveCompleted ArchiveReason = "completed"
	ArchiveRestarted ArchiveReason = "restarted"
	ArchiveDeleted   ArchiveReason = "deleted"
)

// TranscriptArchive is a point-in-time copy of an interview kept after the
// relational rows are gone or finalised.
type TranscriptArchive struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InterviewID   string             `bson:"interview_id" json:"interview_id"`
	ApplicationID string             `bson:"application_id" json:"application_id"`
	Reason        ArchiveReason      `bson:"reason" json:"reason"`

	StartedAt   time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`

	Messages []ArchivedMessage `bson:"messages" json:"messages"`

	Score   *int   `bson:"score,omitempty" json:"score,omitempty"`
	Summary string `bson:"summary,omitempty" json:"summary,omitempty"`

	ArchivedAt time.Time `bson:"archived_at" json:"archived_at"`
}

type ArchivedMessage struct {
	Sender    Sender    `bson:"sender" json:"sender"`
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// NewTranscriptArchive snapshots s and its loaded messages. rep may be nil.
func NewTranscriptArchive(s *InterviewSession, reason ArchiveReason, rep *Report) *TranscriptArchive {
	a := &TranscriptArchive{
		InterviewID:   s.ID,
		ApplicationID: s.ApplicationID,
		Reason:        reason,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		Messages:      make([]ArchivedMessage, 0, len(s.Messages)),
		ArchivedAt:    time.Now().UTC(),
	}
	for _, m := range s.Messages {
		a.Messages = append(a.Messages, ArchivedMessage{Sender: m.Sender, Message: m.Message, Timestamp: m.Timestamp})
	}
	if rep != nil {
		score := rep.Score
		a.Score = &score
		a.Summary = rep.Summary
	}
	return a
}
