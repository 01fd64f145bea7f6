// Package middleware contains HTTP middleware functions for the Tourney API.
// Middleware sits between the HTTP server and route handlers — it runs on
// every request that passes through it, making it the right place for
// cross-cutting concerns like authentication and role checks.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/config"
	"github.com/fairwaylabs/tourney/internal/models"
)

// Claims is the payload of the tokens this API issues at login. Subject holds
// the user's UUID; Role and Email are duplicated into the token so most
// requests never need a user lookup.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT fields: Subject, ExpiresAt, IssuedAt, etc.
	Role                 string `json:"role"`
	Email                string `json:"email"`
}

// Auth returns a Fiber middleware handler that:
//  1. Extracts the token from the "Authorization: Bearer <token>" header
//  2. Verifies the HMAC-SHA256 signature with the configured secret and
//     rejects expired tokens (jwt/v5 validates exp during Parse)
//  3. Confirms the user still exists (deleted accounts lose access even with
//     an unexpired token)
//  4. Stores the user's ID and role in the request context (c.Locals) so
//     downstream handlers can read them without re-parsing the token
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			// Only accept the algorithm we sign with — a token claiming a
			// different method is forged, not misconfigured.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		if claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		// The token is self-contained, but we still confirm the account
		// exists so revoked users can't ride out their token lifetime.
		var user models.User
		if err := db.First(&user, "id = ?", claims.Subject).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "user no longer exists",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		// c.Locals is a key-value store scoped to this single request.
		// Handlers read "userID" and "userRole" from here. The role comes
		// from the database, not the token, so role changes apply immediately.
		c.Locals("userID", user.ID.String())
		c.Locals("userRole", string(user.Role))

		return c.Next()
	}
}
