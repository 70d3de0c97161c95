package models

import "time"

// Report is written once when an interview completes and never updated.
type Report struct {
	ID          string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	InterviewID string    `gorm:"column:interview_id;size:36;uniqueIndex" json:"interview_id"`
	Score       int       `gorm:"column:score" json:"score"`
	Summary     string    `gorm:"column:summary" json:"summary"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Report) TableName() string { return "reports" }
