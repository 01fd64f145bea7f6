// Handlers for /auth routes — account registration and login.
//
// This app owns its accounts: passwords are bcrypt-hashed at registration,
// and login issues an HMAC-SHA256-signed JWT carrying the user's ID, email,
// and role. The Auth middleware verifies that token on every /api/v1 request.
package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/config"
	"github.com/fairwaylabs/tourney/internal/middleware"
	"github.com/fairwaylabs/tourney/internal/models"
)

// tokenTTL is how long an issued token stays valid. Long enough to cover a
// full tournament day so scorers aren't logged out mid-round.
const tokenTTL = 24 * time.Hour

// RegisterRequest is the JSON body we expect on POST /auth/register.
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest is the JSON body we expect on POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login: the signed token plus
// the public view of the account (never the password hash).
type AuthResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Register returns a handler for POST /auth/register.
// New accounts always start with the least-privileged "user" role; admins
// promote organizers out of band. Email uniqueness is enforced by the DB and
// surfaced as a 409.
func Register(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "a valid email is required",
			})
		}
		if req.DisplayName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "display_name is required",
			})
		}
		if len(req.Password) < 8 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "password must be at least 8 characters",
			})
		}

		// Reject duplicates up front for a friendly error; the unique index
		// still backstops races.
		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "an account with that email already exists",
			})
		} else if err != gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to hash password",
			})
		}

		user := models.User{
			DisplayName:  req.DisplayName,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         models.UserRoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create account",
			})
		}

		return issueToken(c, cfg, user, fiber.StatusCreated)
	}
}

// Login returns a handler for POST /auth/login.
// A wrong email and a wrong password produce the same 401 so the endpoint
// doesn't reveal which emails have accounts.
func Login(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "invalid email or password",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid email or password",
			})
		}

		return issueToken(c, cfg, user, fiber.StatusOK)
	}
}

// issueToken signs a JWT for the user and writes the auth response.
func issueToken(c *fiber.Ctx, cfg *config.Config, user models.User, status int) error {
	now := time.Now()
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Role:  string(user.Role),
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to sign token",
		})
	}

	return c.Status(status).JSON(AuthResponse{
		Token:       signed,
		UserID:      user.ID.String(),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        string(user.Role),
	})
}
