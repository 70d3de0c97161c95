package models

import "time"

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusInterviewed ApplicationStatus = "interviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInterviewed, StatusShortlisted, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
// pending -> interviewed is owned by report generation;
// interviewed -> shortlisted|rejected is owned by the recruiter.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInterviewed
	case StatusInterviewed:
		return next == StatusShortlisted || next == StatusRejected
	case StatusShortlisted, StatusRejected:
		return false
	default:
		return false
	}
}

type Application struct {
	ID          string            `gorm:"column:id;size:36;primaryKey" json:"id"`
	JobID       string            `gorm:"column:job_id;size:36;index;uniqueIndex:uniq_job_candidate" json:"job_id"`
	CandidateID string            `gorm:"column:candidate_id;size:36;index;uniqueIndex:uniq_job_candidate" json:"candidate_id"`
	Status      ApplicationStatus `gorm:"column:status;size:16;index" json:"status"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at" json:"updated_at"`

	Job *Job `gorm:"foreignKey:JobID;references:ID" json:"job,omitempty"`
}

func (Application) TableName() string { return "applications" }
