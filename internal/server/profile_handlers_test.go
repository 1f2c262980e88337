package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hottakes/internal/models"
	"hottakes/internal/testutil"
)

func TestGetMyProfileHandler_Bootstraps(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.app.Test(asUser(httptest.NewRequest("GET", "/api/profile", nil), "5"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, uint(5), profile.UserID)
	assert.Equal(t, "user5", profile.DisplayName)
	assert.Nil(t, profile.ProfilePictureURL)

	// A second read returns the same row, not a second bootstrap.
	resp, err = ts.app.Test(asUser(httptest.NewRequest("GET", "/api/profile", nil), "5"))
	require.NoError(t, err)

	var again models.Profile
	decodeBody(t, resp, &again)
	assert.Equal(t, profile.ID, again.ID)
}

func TestRenameProfileHandler(t *testing.T) {
	ts := setupTestServer(t)
	signed := ts.seedPost(t, 5, "signed take", false)
	anon := ts.seedPost(t, 5, "anonymous take", true)

	t.Run("rename fans out to signed posts", func(t *testing.T) {
		req := asUser(jsonRequest("PUT", "/api/profile/name", map[string]any{"display_name": "hot-taker"}), "5")
		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.Profile
		decodeBody(t, resp, &profile)
		assert.Equal(t, "hot-taker", profile.DisplayName)

		var got models.Post
		require.NoError(t, ts.db.First(&got, signed.ID).Error)
		require.NotNil(t, got.AuthorDisplayName)
		assert.Equal(t, "hot-taker", *got.AuthorDisplayName)

		var gotAnon models.Post
		require.NoError(t, ts.db.First(&gotAnon, anon.ID).Error)
		assert.Nil(t, gotAnon.AuthorDisplayName)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		req := asUser(jsonRequest("PUT", "/api/profile/name", map[string]any{"display_name": "   "}), "5")
		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func pictureForm(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestSetProfilePictureHandler(t *testing.T) {
	ts := setupTestServer(t)
	signed := ts.seedPost(t, 5, "signed take", false)

	t.Run("upload updates profile and posts", func(t *testing.T) {
		body, contentType := pictureForm(t, "picture", testutil.PNG(8, 8))
		req := asUser(httptest.NewRequest("PUT", "/api/profile/picture", body), "5")
		req.Header.Set("Content-Type", contentType)

		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.Profile
		decodeBody(t, resp, &profile)
		require.NotNil(t, profile.ProfilePictureURL)
		assert.True(t, strings.HasPrefix(*profile.ProfilePictureURL, "http://blob.test/5/5_"))
		assert.True(t, strings.HasSuffix(*profile.ProfilePictureURL, ".png"))

		// Original plus webp thumbnail.
		assert.Len(t, ts.blob.Paths(), 2)

		var got models.Post
		require.NoError(t, ts.db.First(&got, signed.ID).Error)
		require.NotNil(t, got.AuthorProfilePictureURL)
		assert.Equal(t, *profile.ProfilePictureURL, *got.AuthorProfilePictureURL)
	})

	t.Run("missing file", func(t *testing.T) {
		req := asUser(httptest.NewRequest("PUT", "/api/profile/picture", nil), "5")
		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-image rejected", func(t *testing.T) {
		body, contentType := pictureForm(t, "picture", []byte("not an image at all"))
		req := asUser(httptest.NewRequest("PUT", "/api/profile/picture", body), "5")
		req.Header.Set("Content-Type", contentType)

		resp, err := ts.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetMyPostsHandler(t *testing.T) {
	ts := setupTestServer(t)
	signed := ts.seedPost(t, 5, "signed take", false)
	anon := ts.seedPost(t, 5, "anonymous take", true)
	ts.seedPost(t, 6, "someone else's take", false)
	require.NoError(t, ts.db.Create(&models.Vote{PostID: signed.ID, UserID: 6, Type: models.VoteLike}).Error)

	t.Run("owner sees all own takes, anonymous included", func(t *testing.T) {
		resp, err := ts.app.Test(asUser(httptest.NewRequest("GET", "/api/profile/posts", nil), "5"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Posts []models.FeedPost `json:"posts"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Posts, 2)

		// Newest first.
		assert.Equal(t, anon.ID, body.Posts[0].ID)
		assert.True(t, body.Posts[0].IsAnonymous)
		assert.True(t, body.Posts[0].CanEdit)
		assert.Nil(t, body.Posts[0].AuthorDisplayName)

		assert.Equal(t, signed.ID, body.Posts[1].ID)
		assert.True(t, body.Posts[1].CanEdit)
		assert.Equal(t, 1, body.Posts[1].Likes)
		assert.Equal(t, models.VoteNone, body.Posts[1].ViewerVote)
	})

	t.Run("no takes yet", func(t *testing.T) {
		resp, err := ts.app.Test(asUser(httptest.NewRequest("GET", "/api/profile/posts", nil), "7"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Posts []models.FeedPost `json:"posts"`
		}
		decodeBody(t, resp, &body)
		assert.Empty(t, body.Posts)
	})
}
