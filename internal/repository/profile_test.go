package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hottakes/internal/models"
)

func TestProfileRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := &models.Profile{UserID: 42, DisplayName: "casey"}
	require.NoError(t, repo.Create(ctx, profile))

	got, err := repo.GetByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "casey", got.DisplayName)
	assert.Nil(t, got.ProfilePictureURL)
}

func TestProfileRepository_GetByUserID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.GetByUserID(context.Background(), 404)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProfileRepository_Create_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Profile{UserID: 42, DisplayName: "casey"}))

	err := repo.Create(ctx, &models.Profile{UserID: 42, DisplayName: "impostor"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestProfileRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := &models.Profile{UserID: 42, DisplayName: "casey"}
	require.NoError(t, repo.Create(ctx, profile))

	pic := "http://img/42.png"
	profile.DisplayName = "casey-v2"
	profile.ProfilePictureURL = &pic
	require.NoError(t, repo.Update(ctx, profile))

	got, err := repo.GetByUserID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "casey-v2", got.DisplayName)
	require.NotNil(t, got.ProfilePictureURL)
	assert.Equal(t, pic, *got.ProfilePictureURL)
}
