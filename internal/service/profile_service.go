package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
	"gorm.io/gorm"

	"hottakes/internal/blob"
	"hottakes/internal/models"
	"hottakes/internal/observability"
	"hottakes/internal/repository"
	"hottakes/internal/validation"
)

const (
	thumbnailMaxSize = 256
	thumbnailQuality = 70
)

var pictureExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type ProfileService struct {
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	blobStore   blob.Store
	maxPicBytes int64
	now         func() time.Time
}

type RenameInput struct {
	UserID      uint
	DisplayName string
}

type SetPictureInput struct {
	UserID      uint
	ContentType string
	Content     []byte
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	postRepo repository.PostRepository,
	blobStore blob.Store,
	maxPicBytes int64,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		blobStore:   blobStore,
		maxPicBytes: maxPicBytes,
		now:         time.Now,
	}
}

// GetOrCreate returns the user's profile, bootstrapping one on first contact
// with the local part of the email as the display name. Losing a concurrent
// bootstrap race is routine: the unique index rejects the second insert and
// we return whatever the winner wrote.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID uint, email string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	fresh := &models.Profile{
		UserID:      userID,
		DisplayName: defaultDisplayName(userID, email),
	}
	err = s.profileRepo.Create(ctx, fresh)
	if err == nil {
		return fresh, nil
	}
	if errors.Is(err, repository.ErrDuplicate) {
		profile, err = s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return profile, nil
	}
	return nil, models.NewInternalError(err)
}

// Rename updates the display name and rewrites the snapshot on the user's
// non-anonymous posts. The fan-out is best-effort: the rename itself has
// already committed, so a snapshot failure is logged and counted, never
// surfaced.
func (s *ProfileService) Rename(ctx context.Context, in RenameInput) (*models.Profile, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return nil, models.NewValidationError("Display name is required")
	}
	if err := validation.ValidateDisplayName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	profile, err := s.GetOrCreate(ctx, in.UserID, "")
	if err != nil {
		return nil, err
	}
	profile.DisplayName = name
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.postRepo.UpdateAuthorDisplayName(ctx, in.UserID, name); err != nil {
		observability.FanOutFailures.WithLabelValues("display_name").Inc()
		observability.Logger.WarnContext(ctx, "display name fan-out failed",
			"user_id", in.UserID, "error", err)
	}
	return profile, nil
}

// SetPicture validates and stores a new profile picture, then updates the
// profile and fans the URL out to the user's non-anonymous posts. Anonymous
// posts keep NULL snapshots throughout.
func (s *ProfileService) SetPicture(ctx context.Context, in SetPictureInput) (*models.Profile, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxPicBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxPicBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	ext, ok := pictureExtensions[detectedType]
	if !ok {
		return nil, models.NewValidationError("Picture must be a JPEG, PNG, GIF, or WebP image")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	path := fmt.Sprintf("%d/%d_%d.%s", in.UserID, in.UserID, s.now().UnixMilli(), ext)
	if err := s.blobStore.Upload(ctx, path, in.Content, detectedType); err != nil {
		return nil, models.NewInternalError(err)
	}
	s.uploadThumbnail(ctx, in.UserID, path, decoded)

	url := s.blobStore.PublicURL(path)

	profile, err := s.GetOrCreate(ctx, in.UserID, "")
	if err != nil {
		return nil, err
	}
	profile.ProfilePictureURL = &url
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.postRepo.UpdateAuthorPictureURL(ctx, in.UserID, url); err != nil {
		observability.FanOutFailures.WithLabelValues("picture_url").Inc()
		observability.Logger.WarnContext(ctx, "picture fan-out failed",
			"user_id", in.UserID, "error", err)
	}
	return profile, nil
}

// uploadThumbnail renders and stores a small webp variant next to the
// original. It is an optimization only; failures are logged and ignored.
func (s *ProfileService) uploadThumbnail(ctx context.Context, userID uint, originalPath string, img image.Image) {
	thumb := downscale(img, thumbnailMaxSize)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: thumbnailQuality}); err != nil {
		observability.Logger.WarnContext(ctx, "thumbnail encode failed",
			"user_id", userID, "error", err)
		return
	}

	path := strings.TrimSuffix(originalPath, "."+pathExt(originalPath)) + "_thumb.webp"
	if err := s.blobStore.Upload(ctx, path, buf.Bytes(), "image/webp"); err != nil {
		observability.Logger.WarnContext(ctx, "thumbnail upload failed",
			"user_id", userID, "error", err)
	}
}

func downscale(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

func pathExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return ""
}

// defaultDisplayName derives the bootstrap name from the email local part.
func defaultDisplayName(userID uint, email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return fmt.Sprintf("user-%d", userID)
}
