package models

import "time"

type UserRole string

const (
	RoleCandidate UserRole = "candidate"
	RoleRecruiter UserRole = "recruiter"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCandidate, RoleRecruiter:
		return true
	default:
		return false
	}
}

// User is the identity issued by the auth collaborator.
type User struct {
	ID        string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;size:255;index" json:"email"`
	FullName  string    `gorm:"column:full_name" json:"full_name"`
	Role      UserRole  `gorm:"column:role" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }
