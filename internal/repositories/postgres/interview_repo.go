package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InterviewRepository interface {
	// Create fails with utils.ErrConflict when the application already has a session.
	Create(ctx context.Context, s *models.InterviewSession) error
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	GetByApplication(ctx context.Context, applicationID string) (*models.InterviewSession, error)
	// GetWithMessages loads the session with its messages oldest first.
	GetWithMessages(ctx context.Context, id string) (*models.InterviewSession, error)
	AppendMessage(ctx context.Context, m *models.ChatMessage) error
	// Delete removes the session, its messages and its report in one transaction.
	Delete(ctx context.Context, id string) error

	// CompleteWithReport stores r and stamps completed_at atomically. When a report
	// already exists for the interview it is returned unchanged with created=false.
	CompleteWithReport(ctx context.Context, interviewID string, r *models.Report, completedAt time.Time) (stored *models.Report, created bool, err error)
	GetReport(ctx context.Context, interviewID string) (*models.Report, error)
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	err := r.db.WithContext(ctx).Omit("Messages").Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	return r.take(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *interviewRepo) GetByApplication(ctx context.Context, applicationID string) (*models.InterviewSession, error) {
	return r.take(r.db.WithContext(ctx).Where("application_id = ?", applicationID))
}

func (r *interviewRepo) GetWithMessages(ctx context.Context, id string) (*models.InterviewSession, error) {
	q := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC").Order("id ASC")
		}).
		Where("id = ?", id)
	return r.take(q)
}

func (r *interviewRepo) take(q *gorm.DB) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := q.Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *interviewRepo) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *interviewRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interview_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("interview_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.InterviewSession{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return nil
	})
}

func (r *interviewRepo) CompleteWithReport(ctx context.Context, interviewID string, rep *models.Report, completedAt time.Time) (*models.Report, bool, error) {
	var (
		stored  *models.Report
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rep.InterviewID = interviewID
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "interview_id"}},
			DoNothing: true,
		}).Create(rep)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var existing models.Report
			if err := tx.Where("interview_id = ?", interviewID).Take(&existing).Error; err != nil {
				return err
			}
			stored = &existing
		} else {
			stored = rep
			created = true
		}

		return tx.Model(&models.InterviewSession{}).
			Where("id = ? AND completed_at IS NULL", interviewID).
			Update("completed_at", completedAt).Error
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (r *interviewRepo) GetReport(ctx context.Context, interviewID string) (*models.Report, error) {
	var rep models.Report
	err := r.db.WithContext(ctx).Where("interview_id = ?", interviewID).Take(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
