// Package middleware provides authentication, logging, and rate-limiting
// middleware for the application.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hottakes/internal/identity"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired enforces authentication for protected routes. On success the
// session's user ID and email are stored in Fiber locals and the session is
// announced on the broker.
func AuthRequired(provider identity.Provider, broker *identity.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		session, err := provider.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		announce(broker, session)
		c.Locals("userID", session.UserID)
		c.Locals("email", session.Email)
		return c.Next()
	}
}

// OptionalAuth resolves a session when a valid token is present but lets
// unauthenticated requests through. The feed is readable signed out.
func OptionalAuth(provider identity.Provider, broker *identity.Broker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if session, err := provider.Verify(c.Context(), token); err == nil {
				announce(broker, session)
				c.Locals("userID", session.UserID)
				c.Locals("email", session.Email)
			}
		}
		return c.Next()
	}
}

// announce publishes the session unless it matches the broker's current state,
// so subscribers hear changes rather than every request.
func announce(broker *identity.Broker, session *identity.Session) {
	if broker == nil {
		return
	}
	current := broker.Current()
	if current != nil && current.UserID == session.UserID {
		return
	}
	broker.Publish(session)
}
