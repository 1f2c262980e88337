package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTProvider_Verify(t *testing.T) {
	provider := NewJWTProvider(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":   "42",
			"email": "casey@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		session, err := provider.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), session.UserID)
		assert.Equal(t, "casey@example.com", session.Email)
	})

	t.Run("missing email is tolerated", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		session, err := provider.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Empty(t, session.Email)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"sub": "42"})
		_, err := provider.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := provider.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"email": "casey@example.com"})
		_, err := provider.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"sub": "not-a-number"})
		_, err := provider.Verify(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := provider.Verify(context.Background(), "not.a.jwt")
		assert.Error(t, err)
	})
}
