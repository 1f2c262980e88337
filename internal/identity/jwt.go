package identity

import (
	"context"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"hottakes/internal/models"
)

// JWTProvider verifies HMAC-signed tokens issued by the external identity
// provider. The subject claim carries the user ID, the email claim the
// account email used for profile bootstrap defaults.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a provider validating tokens against the shared secret.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

// Verify parses and validates the token and extracts the session.
func (p *JWTProvider) Verify(_ context.Context, tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Invalid signing method")
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	subClaim, ok := claims["sub"]
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token subject type")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	email, _ := claims["email"].(string)

	return &Session{UserID: uint(userID), Email: email}, nil
}
