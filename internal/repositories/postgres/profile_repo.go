package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	SetResumeURL(ctx context.Context, userID, url string) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Take(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Upsert inserts p or overwrites the shared columns plus those owned by p.Role.
// resume_url is only written by SetResumeURL.
func (r *profileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	cols := []string{"role", "full_name", "phone_number", "updated_at"}
	switch p.Role {
	case models.RoleCandidate:
		cols = append(cols, "headline", "skills", "experience", "education")
	case models.RoleRecruiter:
		cols = append(cols, "company_name", "position")
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(cols),
		}).
		Create(p).Error
}

func (r *profileRepo) SetResumeURL(ctx context.Context, userID, url string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Update("resume_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
