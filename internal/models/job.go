package models

import "time"

type Job struct {
	ID          string `gorm:"column:id;size:36;primaryKey" json:"id"`
	RecruiterID string `gorm:"column:recruiter_id;size:36;index" json:"recruiter_id"`

	Title       string `gorm:"column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Location    string `gorm:"column:location" json:"location"`

	Skills           StringList `gorm:"column:skills" json:"skills"`
	Responsibilities StringList `gorm:"column:responsibilities" json:"responsibilities"`
	Benefits         StringList `gorm:"column:benefits" json:"benefits"`
	Requirements     StringList `gorm:"column:requirements" json:"requirements"`

	Deadline  *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;index" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }
