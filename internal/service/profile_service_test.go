package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hottakes/internal/models"
	"hottakes/internal/repository"
	"hottakes/internal/testutil"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
	createFn      func(context.Context, *models.Profile) error
	updateFn      func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID, DisplayName: "casey"}, nil
		},
		createFn: func(_ context.Context, _ *models.Profile) error { return nil },
		updateFn: func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

func newProfileService(profileRepo *profileRepoStub, postRepo *postRepoStub, store *testutil.BlobStoreStub) *ProfileService {
	return NewProfileService(profileRepo, postRepo, store, 5*1024*1024)
}

func TestProfileService_GetOrCreate_Existing(t *testing.T) {
	repo := noopProfileRepo()
	repo.createFn = func(_ context.Context, _ *models.Profile) error {
		t.Fatal("existing profile must not trigger a create")
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), testutil.NewBlobStoreStub())

	profile, err := svc.GetOrCreate(context.Background(), 1, "casey@example.com")
	require.NoError(t, err)
	assert.Equal(t, "casey", profile.DisplayName)
}

func TestProfileService_GetOrCreate_Bootstrap(t *testing.T) {
	repo := noopProfileRepo()
	repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		return nil, gorm.ErrRecordNotFound
	}
	var created *models.Profile
	repo.createFn = func(_ context.Context, profile *models.Profile) error {
		created = profile
		return nil
	}
	svc := newProfileService(repo, noopPostRepo(), testutil.NewBlobStoreStub())

	profile, err := svc.GetOrCreate(context.Background(), 42, "hot.takes@example.com")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "hot.takes", profile.DisplayName)
	assert.Equal(t, uint(42), profile.UserID)
	assert.Nil(t, profile.ProfilePictureURL)
}

func TestProfileService_GetOrCreate_FallbackName(t *testing.T) {
	repo := noopProfileRepo()
	repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.Profile, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := newProfileService(repo, noopPostRepo(), testutil.NewBlobStoreStub())

	profile, err := svc.GetOrCreate(context.Background(), 42, "")
	require.NoError(t, err)
	assert.Equal(t, "user-42", profile.DisplayName)
}

func TestProfileService_GetOrCreate_LostRace(t *testing.T) {
	calls := 0
	repo := noopProfileRepo()
	repo.getByUserIDFn = func(_ context.Context, userID uint) (*models.Profile, error) {
		calls++
		if calls == 1 {
			return nil, gorm.ErrRecordNotFound
		}
		// Second read sees what the concurrent winner wrote.
		return &models.Profile{UserID: userID, DisplayName: "winner"}, nil
	}
	repo.createFn = func(_ context.Context, _ *models.Profile) error {
		return fmt.Errorf("profile: %w", repository.ErrDuplicate)
	}
	svc := newProfileService(repo, noopPostRepo(), testutil.NewBlobStoreStub())

	profile, err := svc.GetOrCreate(context.Background(), 42, "loser@example.com")
	require.NoError(t, err)
	assert.Equal(t, "winner", profile.DisplayName)
	assert.Equal(t, 2, calls)
}

func TestProfileService_Rename(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := newProfileService(noopProfileRepo(), noopPostRepo(), testutil.NewBlobStoreStub())
		for _, name := range []string{"", "   ", strings.Repeat("x", 61), "admin"} {
			_, err := svc.Rename(context.Background(), RenameInput{UserID: 1, DisplayName: name})
			assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
		}
	})

	t.Run("updates and fans out", func(t *testing.T) {
		var fannedOut string
		postRepo := noopPostRepo()
		postRepo.updateAuthorDisplayNameFn = func(_ context.Context, authorID uint, name string) error {
			assert.Equal(t, uint(1), authorID)
			fannedOut = name
			return nil
		}
		svc := newProfileService(noopProfileRepo(), postRepo, testutil.NewBlobStoreStub())

		profile, err := svc.Rename(context.Background(), RenameInput{UserID: 1, DisplayName: "  fresh name  "})
		require.NoError(t, err)
		assert.Equal(t, "fresh name", profile.DisplayName)
		assert.Equal(t, "fresh name", fannedOut)
	})

	t.Run("fan-out failure is swallowed", func(t *testing.T) {
		postRepo := noopPostRepo()
		postRepo.updateAuthorDisplayNameFn = func(_ context.Context, _ uint, _ string) error {
			return errors.New("db gone")
		}
		svc := newProfileService(noopProfileRepo(), postRepo, testutil.NewBlobStoreStub())

		profile, err := svc.Rename(context.Background(), RenameInput{UserID: 1, DisplayName: "fresh"})
		require.NoError(t, err)
		assert.Equal(t, "fresh", profile.DisplayName)
	})
}

func TestProfileService_SetPicture(t *testing.T) {
	t.Run("oversized rejected before upload", func(t *testing.T) {
		store := testutil.NewBlobStoreStub()
		svc := newProfileService(noopProfileRepo(), noopPostRepo(), store)

		_, err := svc.SetPicture(context.Background(), SetPictureInput{
			UserID:  1,
			Content: make([]byte, 6*1024*1024),
		})
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
		assert.Empty(t, store.Paths())
	})

	t.Run("non-image rejected", func(t *testing.T) {
		svc := newProfileService(noopProfileRepo(), noopPostRepo(), testutil.NewBlobStoreStub())
		_, err := svc.SetPicture(context.Background(), SetPictureInput{
			UserID:  1,
			Content: []byte("definitely not an image"),
		})
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("truncated image rejected", func(t *testing.T) {
		svc := newProfileService(noopProfileRepo(), noopPostRepo(), testutil.NewBlobStoreStub())
		_, err := svc.SetPicture(context.Background(), SetPictureInput{
			UserID:  1,
			Content: testutil.TruncatedPNG(),
		})
		assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
	})

	t.Run("stores picture and fans out", func(t *testing.T) {
		var updated *models.Profile
		profileRepo := noopProfileRepo()
		profileRepo.updateFn = func(_ context.Context, profile *models.Profile) error {
			updated = profile
			return nil
		}
		var fannedOut string
		postRepo := noopPostRepo()
		postRepo.updateAuthorPictureURLFn = func(_ context.Context, _ uint, url string) error {
			fannedOut = url
			return nil
		}
		store := testutil.NewBlobStoreStub()

		svc := newProfileService(profileRepo, postRepo, store)
		svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

		profile, err := svc.SetPicture(context.Background(), SetPictureInput{
			UserID:  7,
			Content: testutil.PNG(10, 10),
		})
		require.NoError(t, err)

		wantPath := "7/7_1700000000000.png"
		_, ok := store.Object(wantPath)
		assert.True(t, ok)
		_, ok = store.Object("7/7_1700000000000_thumb.webp")
		assert.True(t, ok)

		wantURL := "http://blob.test/" + wantPath
		require.NotNil(t, profile.ProfilePictureURL)
		assert.Equal(t, wantURL, *profile.ProfilePictureURL)
		require.NotNil(t, updated)
		assert.Equal(t, wantURL, fannedOut)
	})

	t.Run("upload failure surfaces as internal", func(t *testing.T) {
		store := testutil.NewBlobStoreStub()
		store.Err = errors.New("bucket unavailable")
		svc := newProfileService(noopProfileRepo(), noopPostRepo(), store)

		_, err := svc.SetPicture(context.Background(), SetPictureInput{UserID: 1, Content: testutil.PNG(10, 10)})
		assert.Equal(t, "INTERNAL_ERROR", appErrCode(t, err))
	})
}
