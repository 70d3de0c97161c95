package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/utils"
)

type RecruiterDashboard struct {
	TotalJobs         int64                              `json:"total_jobs"`
	TotalApplications int64                              `json:"total_applications"`
	ByStatus          map[models.ApplicationStatus]int64 `json:"by_status"`
}

type DashboardService interface {
	Recruiter(ctx context.Context, recruiterID string) (*RecruiterDashboard, error)
}

type dashboardService struct {
	jobs  pgrepo.JobRepository
	apps  pgrepo.ApplicationRepository
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewDashboardService(jobs pgrepo.JobRepository, apps pgrepo.ApplicationRepository, c cache.Cache, log logrus.FieldLogger) DashboardService {
	if log == nil {
		log = logger.Discard()
	}
	return &dashboardService{jobs: jobs, apps: apps, cache: c, log: log}
}

func (s *dashboardService) Recruiter(ctx context.Context, recruiterID string) (*RecruiterDashboard, error) {
	const op = "DashboardService.Recruiter"

	if recruiterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recruiter_id is required", nil)
	}

	return cache.ReadThrough(ctx, s.cache, s.log, cache.RecruiterDashboard(recruiterID), func(ctx context.Context) (*RecruiterDashboard, error) {
		jobs, err := s.jobs.CountByRecruiter(ctx, recruiterID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
		}
		byStatus, err := s.apps.CountByStatusForRecruiter(ctx, recruiterID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to count applications", err)
		}

		d := &RecruiterDashboard{TotalJobs: jobs, ByStatus: byStatus}
		for _, n := range byStatus {
			d.TotalApplications += n
		}
		return d, nil
	})
}
