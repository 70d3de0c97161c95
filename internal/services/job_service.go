package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/utils"
)

// PublicJob is a job as shown to anyone but its owner; the recruiter id is left out.
type PublicJob struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Skills           []string   `json:"skills"`
	Responsibilities []string   `json:"responsibilities"`
	Benefits         []string   `json:"benefits"`
	Requirements     []string   `json:"requirements"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func publicJob(j *models.Job) PublicJob {
	if j == nil {
		return PublicJob{}
	}
	return PublicJob{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Location:         j.Location,
		Skills:           j.Skills,
		Responsibilities: j.Responsibilities,
		Benefits:         j.Benefits,
		Requirements:     j.Requirements,
		Deadline:         j.Deadline,
		CreatedAt:        j.CreatedAt,
	}
}

type JobInput struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Skills           []string   `json:"skills"`
	Responsibilities []string   `json:"responsibilities"`
	Benefits         []string   `json:"benefits"`
	Requirements     []string   `json:"requirements"`
	Deadline         *time.Time `json:"deadline"`
}

type JobDetail struct {
	Job        PublicJob `json:"job"`
	HasApplied bool      `json:"has_applied"`
}

type JobService interface {
	Create(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error)
	Get(ctx context.Context, viewerID, jobID string) (*JobDetail, error)
	ListApplications(ctx context.Context, recruiterID, jobID string) ([]models.Application, error)
}

type jobService struct {
	jobs  pgrepo.JobRepository
	apps  pgrepo.ApplicationRepository
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewJobService(jobs pgrepo.JobRepository, apps pgrepo.ApplicationRepository, c cache.Cache, log logrus.FieldLogger) JobService {
	if log == nil {
		log = logger.Discard()
	}
	return &jobService{jobs: jobs, apps: apps, cache: c, log: log}
}

func (s *jobService) Create(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	title := strings.TrimSpace(in.Title)
	if recruiterID == "" || title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id and title are required", nil)
	}

	j := &models.Job{
		ID:               uuid.NewString(),
		RecruiterID:      recruiterID,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		Location:         strings.TrimSpace(in.Location),
		Skills:           models.StringList(in.Skills),
		Responsibilities: models.StringList(in.Responsibilities),
		Benefits:         models.StringList(in.Benefits),
		Requirements:     models.StringList(in.Requirements),
		Deadline:         in.Deadline,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.JobCreated{RecruiterID: recruiterID})
	return j, nil
}

func (s *jobService) Get(ctx context.Context, viewerID, jobID string) (*JobDetail, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	return cache.ReadThrough(ctx, s.cache, s.log, cache.JobDetail(viewerID, jobID), func(ctx context.Context) (*JobDetail, error) {
		j, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, repoErr(op, "job not found", "failed to get job", err)
		}
		applied, err := s.apps.Exists(ctx, jobID, viewerID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to check application", err)
		}
		return &JobDetail{Job: publicJob(j), HasApplied: applied}, nil
	})
}

func (s *jobService) ListApplications(ctx context.Context, recruiterID, jobID string) ([]models.Application, error) {
	const op = "JobService.ListApplications"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	return cache.ReadThrough(ctx, s.cache, s.log, cache.JobApplications(recruiterID, jobID), func(ctx context.Context) ([]models.Application, error) {
		j, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, repoErr(op, "job not found", "failed to get job", err)
		}
		if j.RecruiterID != recruiterID {
			return nil, utils.E(utils.CodeForbidden, op, "not your job", nil)
		}
		rows, err := s.apps.ListByJob(ctx, jobID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
		}
		return rows, nil
	})
}
