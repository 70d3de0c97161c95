package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func seedJob(t *testing.T, db *gorm.DB, recruiterID string) *models.Job {
	t.Helper()
	j := &models.Job{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Title:       "Backend Engineer",
		Skills:      models.StringList{"go", "postgres"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, NewJobRepo(db).Create(context.Background(), j))
	return j
}

func seedApplication(t *testing.T, db *gorm.DB, jobID, candidateID string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	now := time.Now().UTC()
	a := &models.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewApplicationRepo(db).Create(context.Background(), a))
	return a
}
