package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for SQL-shape tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// The snapshot fan-out must never touch anonymous posts; pin the guard into
// the generated UPDATE itself rather than trusting row-level tests alone.
func TestPostRepository_FanOutSkipsAnonymousInSQL(t *testing.T) {
	t.Run("display name", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := NewPostRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET .+ WHERE author_id = \$\d+ AND is_anonymous = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		require.NoError(t, repo.UpdateAuthorDisplayName(context.Background(), 7, "fresh name"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("picture URL", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := NewPostRepository(gormDB)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "posts" SET .+ WHERE author_id = \$\d+ AND is_anonymous = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		require.NoError(t, repo.UpdateAuthorPictureURL(context.Background(), 7, "http://blob.test/7/7_1.png"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
