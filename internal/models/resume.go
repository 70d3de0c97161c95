package models

import "time"

type ResumeFile struct {
	ID       string `gorm:"column:id;size:36;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;size:36;index" json:"user_id"`
	FileName string `gorm:"column:file_name" json:"file_name"`
	FilePath string `gorm:"column:file_path" json:"file_path"`

	FileSize int    `gorm:"column:file_size" json:"file_size"`
	MimeType string `gorm:"column:mime_type" json:"mime_type"`

	UploadAt time.Time `gorm:"column:upload_at" json:"upload_at"`
}

func (ResumeFile) TableName() string { return "resume_files" }
