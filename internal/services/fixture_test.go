package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/providers/llm"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// scriptedLLM replays canned replies in order and records every request.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]llm.Message
}

func (s *scriptedLLM) push(replies ...string) {
	s.mu.Lock()
	s.replies = append(s.replies, replies...)
	s.mu.Unlock()
}

func (s *scriptedLLM) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]llm.Message(nil), msgs...))
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedLLM) Close() error { return nil }

func (s *scriptedLLM) lastCall() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

func (s *scriptedLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordingArchive struct {
	mu   sync.Mutex
	docs []*models.TranscriptArchive
}

func (r *recordingArchive) Archive(_ context.Context, a *models.TranscriptArchive) error {
	r.mu.Lock()
	r.docs = append(r.docs, a)
	r.mu.Unlock()
	return nil
}

type memUploader struct {
	objects map[string][]byte
}

func (u *memUploader) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[objectName] = b
	return "gs://test-bucket/" + objectName, nil
}

type fixture struct {
	db         *gorm.DB
	jobs       pgrepo.JobRepository
	apps       pgrepo.ApplicationRepository
	interviews pgrepo.InterviewRepository
	profiles   pgrepo.ProfileRepository
	users      pgrepo.UserRepository
	resumes    pgrepo.ResumeRepository

	cache   *cache.MemoryCache
	llm     *scriptedLLM
	archive *recordingArchive

	interview InterviewService
	report    ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	f := &fixture{
		db:         db,
		jobs:       pgrepo.NewJobRepo(db),
		apps:       pgrepo.NewApplicationRepo(db),
		interviews: pgrepo.NewInterviewRepo(db),
		profiles:   pgrepo.NewProfileRepo(db),
		users:      pgrepo.NewUserRepo(db),
		resumes:    pgrepo.NewResumeRepo(db),
		cache:      cache.NewMemoryCache(),
		llm:        &scriptedLLM{},
		archive:    &recordingArchive{},
	}
	log := logger.Discard()
	f.interview = NewInterviewService(InterviewDeps{
		Applications: f.apps,
		Interviews:   f.interviews,
		Profiles:     f.profiles,
		Users:        f.users,
		LLM:          f.llm,
		Archive:      f.archive,
		Cache:        f.cache,
		Log:          log,
	})
	f.report = NewReportService(ReportDeps{
		Applications: f.apps,
		Interviews:   f.interviews,
		Profiles:     f.profiles,
		LLM:          f.llm,
		Archive:      f.archive,
		Cache:        f.cache,
		Log:          log,
	})
	return f
}

func (f *fixture) seedJob(t *testing.T, recruiterID, title string) *models.Job {
	t.Helper()
	j := &models.Job{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Title:       title,
		Description: "Build and run APIs",
		Skills:      models.StringList{"go", "sql"},
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.jobs.Create(context.Background(), j))
	return j
}

func (f *fixture) seedApplication(t *testing.T, jobID, candidateID string, status models.ApplicationStatus) *models.Application {
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
	require.NoError(t, f.apps.Create(context.Background(), a))
	return a
}

func (f *fixture) status(t *testing.T, applicationID string) models.ApplicationStatus {
	t.Helper()
	a, err := f.apps.GetByID(context.Background(), applicationID)
	require.NoError(t, err)
	return a.Status
}

func (f *fixture) countReports(t *testing.T, interviewID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Report{}).Where("interview_id = ?", interviewID).Count(&n).Error)
	return n
}

func requireCode(t *testing.T, err error, code utils.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, utils.CodeOf(err), err.Error())
}

func turn(message string, finished bool) string {
	if finished {
		return `{"message":"` + message + `","isFinished":true}`
	}
	return `{"message":"` + message + `","isFinished":false}`
}
