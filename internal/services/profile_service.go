package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/models"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/storage"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/datatypes"
)

const maxResumeBytes = 5 << 20

type ProfileInput struct {
	FullName    string         `json:"full_name"`
	PhoneNumber string         `json:"phone_number"`
	Headline    string         `json:"headline"`
	Skills      []string       `json:"skills"`
	Experience  datatypes.JSON `json:"experience"`
	Education   datatypes.JSON `json:"education"`
	CompanyName string         `json:"company_name"`
	Position    string         `json:"position"`
}

type ResumeUpload struct {
	FileName string
	MimeType string
	Size     int
	Body     io.Reader
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, role models.UserRole, in ProfileInput) (*models.Profile, error)
	UploadResume(ctx context.Context, userID string, up ResumeUpload) (*models.ResumeFile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	users    pgrepo.UserRepository
	resumes  pgrepo.ResumeRepository
	uploader storage.Uploader
	cache    cache.Cache
	log      logrus.FieldLogger
}

func NewProfileService(profiles pgrepo.ProfileRepository, users pgrepo.UserRepository, resumes pgrepo.ResumeRepository, uploader storage.Uploader, c cache.Cache, log logrus.FieldLogger) ProfileService {
	if log == nil {
		log = logger.Discard()
	}
	return &profileService{profiles: profiles, users: users, resumes: resumes, uploader: uploader, cache: c, log: log}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	return cache.ReadThrough(ctx, s.cache, s.log, cache.Profile(userID), func(ctx context.Context) (*models.Profile, error) {
		p, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			return nil, repoErr(op, "profile not found", "failed to get profile", err)
		}
		return p, nil
	})
}

func (s *profileService) Update(ctx context.Context, userID string, role models.UserRole, in ProfileInput) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if userID == "" || !role.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and a valid role are required", nil)
	}

	p := &models.Profile{
		UserID:      userID,
		Role:        role,
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		UpdatedAt:   time.Now().UTC(),
	}
	switch role {
	case models.RoleCandidate:
		p.Headline = strings.TrimSpace(in.Headline)
		p.Skills = models.StringList(in.Skills)
		p.Experience = in.Experience
		p.Education = in.Education
	case models.RoleRecruiter:
		p.CompanyName = strings.TrimSpace(in.CompanyName)
		p.Position = strings.TrimSpace(in.Position)
	}

	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to upsert profile", err)
	}
	if s.users != nil {
		u := &models.User{ID: userID, FullName: p.FullName, Role: role, CreatedAt: p.UpdatedAt}
		if err := s.users.Upsert(ctx, u); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("user upsert failed")
		}
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.ProfileUpdated{UserID: userID})
	return p, nil
}

func (s *profileService) UploadResume(ctx context.Context, userID string, up ResumeUpload) (*models.ResumeFile, error) {
	const op = "ProfileService.UploadResume"

	if userID == "" || up.Body == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and file are required", nil)
	}
	if up.Size > maxResumeBytes {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file exceeds 5MB", nil)
	}
	if s.uploader == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "resume storage is not configured", nil)
	}

	if _, err := s.profiles.GetByUserID(ctx, userID); err != nil {
		return nil, repoErr(op, "create a profile before uploading a resume", "failed to get profile", err)
	}

	objectName := path.Join("resumes", userID, uuid.NewString()+strings.ToLower(path.Ext(up.FileName)))
	stored, err := s.uploader.Upload(ctx, objectName, up.MimeType, io.LimitReader(up.Body, maxResumeBytes))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	row := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: up.FileName,
		FilePath: stored,
		FileSize: up.Size,
		MimeType: up.MimeType,
		UploadAt: time.Now().UTC(),
	}
	if err := s.resumes.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}
	if err := s.profiles.SetResumeURL(ctx, userID, stored); err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to link resume", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.ProfileUpdated{UserID: userID})
	return row, nil
}
