package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds both candidate and recruiter details; Role decides which fields apply.
type Profile struct {
	UserID      string   `gorm:"column:user_id;size:36;primaryKey" json:"user_id"`
	Role        UserRole `gorm:"column:role" json:"role"`
	FullName    string   `gorm:"column:full_name" json:"full_name"`
	PhoneNumber string   `gorm:"column:phone_number" json:"phone_number"`

	// candidate
	Headline  string     `gorm:"column:headline" json:"headline,omitempty"`
	Skills    StringList `gorm:"column:skills" json:"skills,omitempty"`
	ResumeURL string     `gorm:"column:resume_url" json:"resume_url,omitempty"`

	// JSONB (raw JSON, flexible structure)
	Experience datatypes.JSON `gorm:"column:experience" json:"experience,omitempty"`
	Education  datatypes.JSON `gorm:"column:education" json:"education,omitempty"`

	// recruiter
	CompanyName string `gorm:"column:company_name" json:"company_name,omitempty"`
	Position    string `gorm:"column:position" json:"position,omitempty"`

	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
