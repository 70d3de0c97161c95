package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirescreen/internal/models"
	"github.com/yoockh/hirescreen/internal/utils"
)

func TestJobRepoCreateGetCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepo(db)
	ctx := context.Background()

	j := seedJob(t, db, "R1")
	seedJob(t, db, "R1")
	seedJob(t, db, "R2")

	got, err := repo.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, models.StringList{"go", "postgres"}, got.Skills)

	n, err := repo.CountByRecruiter(ctx, "R1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
