package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/utils"
)

type ApplicationService interface {
	Create(ctx context.Context, candidateID, jobID string) (*models.Application, error)
	// UpdateStatus is the recruiter's decision on an interviewed application.
	UpdateStatus(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) (*models.Application, error)
	ListAppliedJobs(ctx context.Context, candidateID string) ([]models.Application, error)
	ListShortlisted(ctx context.Context, recruiterID string) ([]models.Application, error)
}

type applicationService struct {
	jobs  pgrepo.JobRepository
	apps  pgrepo.ApplicationRepository
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewApplicationService(jobs pgrepo.JobRepository, apps pgrepo.ApplicationRepository, c cache.Cache, log logrus.FieldLogger) ApplicationService {
	if log == nil {
		log = logger.Discard()
	}
	return &applicationService{jobs: jobs, apps: apps, cache: c, log: log}
}

func (s *applicationService) Create(ctx context.Context, candidateID, jobID string) (*models.Application, error) {
	const op = "ApplicationService.Create"

	if candidateID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id and job_id are required", nil)
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoErr(op, "job not found", "failed to get job", err)
	}
	now := time.Now().UTC()
	if j.Deadline != nil && now.After(*j.Deadline) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application deadline has passed", nil)
	}

	a := &models.Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apps.Create(ctx, a); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "already applied", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.ApplicationCreated{
		CandidateID: candidateID,
		RecruiterID: j.RecruiterID,
		JobID:       jobID,
	})
	return a, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, recruiterID, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	if applicationID == "" || !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "valid application_id and status are required", nil)
	}
	switch status {
	case models.StatusShortlisted, models.StatusRejected:
	case models.StatusPending, models.StatusInterviewed:
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be shortlisted or rejected", nil)
	}

	a, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, repoErr(op, "application not found", "failed to get application", err)
	}
	if a.Job == nil || a.Job.RecruiterID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "not your job", nil)
	}
	if !a.Status.CanTransitionTo(status) {
		return nil, utils.E(utils.CodeConflict, op, "cannot move from "+string(a.Status)+" to "+string(status), nil)
	}

	if err := s.apps.UpdateStatus(ctx, a.ID, a.Status, status); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application status changed concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.ApplicationStatusChanged{
		RecruiterID:   recruiterID,
		CandidateID:   a.CandidateID,
		ApplicationID: a.ID,
		JobID:         a.JobID,
	})
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	return a, nil
}

func (s *applicationService) ListAppliedJobs(ctx context.Context, candidateID string) ([]models.Application, error) {
	const op = "ApplicationService.ListAppliedJobs"

	return cache.ReadThrough(ctx, s.cache, s.log, cache.AppliedJobs(candidateID), func(ctx context.Context) ([]models.Application, error) {
		rows, err := s.apps.ListByCandidate(ctx, candidateID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
		}
		return rows, nil
	})
}

func (s *applicationService) ListShortlisted(ctx context.Context, recruiterID string) ([]models.Application, error) {
	const op = "ApplicationService.ListShortlisted"

	return cache.ReadThrough(ctx, s.cache, s.log, cache.RecruiterShortlisted(recruiterID), func(ctx context.Context) ([]models.Application, error) {
		rows, err := s.apps.ListByRecruiterAndStatus(ctx, recruiterID, models.StatusShortlisted)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to list shortlisted applications", err)
		}
		return rows, nil
	})
}
