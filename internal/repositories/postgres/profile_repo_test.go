package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
	"gorm.io/datatypes"
)

func TestProfileRepoUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	p := &models.Profile{
		UserID:     "U1",
		Role:       models.RoleCandidate,
		FullName:   "Ada",
		Skills:     models.StringList{"go"},
		Experience: datatypes.JSON(`[{"company":"Acme","years":3}]`),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, p))

	p.FullName = "Ada Lovelace"
	p.Skills = models.StringList{"go", "sql"}
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.GetByUserID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, models.StringList{"go", "sql"}, got.Skills)
	assert.JSONEq(t, `[{"company":"Acme","years":3}]`, string(got.Experience))

	require.NoError(t, repo.SetResumeURL(ctx, "U1", "gs://bucket/resumes/U1.pdf"))
	got, err = repo.GetByUserID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "gs://bucket/resumes/U1.pdf", got.ResumeURL)

	assert.ErrorIs(t, repo.SetResumeURL(ctx, "nobody", "x"), utils.ErrNotFound)
	_, err = repo.GetByUserID(ctx, "nobody")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestProfileRepoUpsertKeepsOtherRoleColumns(t *testing.T) {
	db := newTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Profile{
		UserID:      "R1",
		Role:        models.RoleRecruiter,
		FullName:    "Grace",
		CompanyName: "Acme",
		Position:    "Head of Talent",
		UpdatedAt:   time.Now().UTC(),
	}))
	require.NoError(t, repo.SetResumeURL(ctx, "R1", "gs://bucket/r.pdf"))

	// a recruiter update that omits company fields still overwrites them
	require.NoError(t, repo.Upsert(ctx, &models.Profile{
		UserID:    "R1",
		Role:      models.RoleRecruiter,
		FullName:  "Grace Hopper",
		Headline:  "ignored for recruiters",
		UpdatedAt: time.Now().UTC(),
	}))

	got, err := repo.GetByUserID(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.FullName)
	assert.Empty(t, got.CompanyName)
	assert.Empty(t, got.Headline)
	assert.Equal(t, "gs://bucket/r.pdf", got.ResumeURL)
}

func TestResumeRepoLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewResumeRepo(db)
	ctx := context.Background()
	old := time.Now().UTC().Add(-time.Hour)

	require.NoError(t, repo.Insert(ctx, &models.ResumeFile{ID: uuid.NewString(), UserID: "U1", FileName: "old.pdf", UploadAt: old}))
	require.NoError(t, repo.Insert(ctx, &models.ResumeFile{ID: uuid.NewString(), UserID: "U1", FileName: "new.pdf", UploadAt: time.Now().UTC()}))

	got, err := repo.LatestByUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", got.FileName)

	_, err = repo.LatestByUser(ctx, "U2")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserRepoUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "U1", Email: "a@x.io", Role: models.RoleRecruiter, CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "U1", FullName: "Grace", Role: models.RoleRecruiter}))

	got, err := repo.GetByID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.FullName)
	assert.Equal(t, "a@x.io", got.Email)
}
