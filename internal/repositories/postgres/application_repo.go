package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Exists(ctx context.Context, jobID, candidateID string) (bool, error)

	// MarkInterviewed moves a pending application to interviewed. Any other
	// status is left untouched, so repeated calls are no-ops.
	MarkInterviewed(ctx context.Context, id string) error
	// UpdateStatus succeeds only while the row still holds from.
	UpdateStatus(ctx context.Context, id string, from, to models.ApplicationStatus) error

	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error)
	ListByRecruiterAndStatus(ctx context.Context, recruiterID string, status models.ApplicationStatus) ([]models.Application, error)
	CountByStatusForRecruiter(ctx context.Context, recruiterID string) (map[models.ApplicationStatus]int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("id = ?", id).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		Count(&n).Error
	return n > 0, err
}

func (r *applicationRepo) MarkInterviewed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{
			"status":     models.StatusInterviewed,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, from, to models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrConflict
	}
	return nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByRecruiterAndStatus(ctx context.Context, recruiterID string, status models.ApplicationStatus) ([]models.Application, error) {
	var rows []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ? AND applications.status = ?", recruiterID, status).
		Order("applications.updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) CountByStatusForRecruiter(ctx context.Context, recruiterID string) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("applications.status AS status, COUNT(*) AS n").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.recruiter_id = ?", recruiterID).
		Group("applications.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := map[models.ApplicationStatus]int64{
		models.StatusPending:     0,
		models.StatusInterviewed: 0,
		models.StatusShortlisted: 0,
		models.StatusRejected:    0,
	}
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
