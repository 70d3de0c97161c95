package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is stored as a native text[] on postgres and as the same array
// literal in a text column elsewhere.
type StringList pq.StringArray

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (StringList) GormDataType() string { return "string_list" }

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// All lists every relational entity in migration order.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&ResumeFile{},
		&Job{},
		&Application{},
		&InterviewSession{},
		&ChatMessage{},
		&Report{},
	}
}
