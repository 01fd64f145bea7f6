// cmd/server/main.go
// Entry point for the Tourney API server — the golf tournament scoring
// backend. The cmd/ folder holds executable binaries, and internal/ holds the
// packages they wire together: config, database, HTTP handlers, middleware,
// the WebSocket hub, and the scoring engine the handlers call into.
package main

import (
	"log"

	// fiberws upgrades HTTP requests to WebSocket connections on fiber routes
	fiberws "github.com/gofiber/contrib/websocket"
	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors allows browser clients on other origins to talk to the API
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/fairwaylabs/tourney/internal/config"
	"github.com/fairwaylabs/tourney/internal/database"
	"github.com/fairwaylabs/tourney/internal/handlers"
	"github.com/fairwaylabs/tourney/internal/middleware"
	"github.com/fairwaylabs/tourney/internal/websocket"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Connect to PostgreSQL. The returned *gorm.DB is injected into every
	// handler and middleware that needs to run queries.
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Apply any pending SQL migrations (in the migrations/ directory) so the
	// schema is always in sync when the server starts.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// The Hub manages live WebSocket connections — spectators watching an
	// event's leaderboard. It runs its own event loop in a goroutine; score
	// handlers push fresh leaderboards into it after every accepted write.
	hub := websocket.NewHub()
	go hub.Run()

	app := fiber.New(fiber.Config{
		AppName: "Tourney API",
	})

	// --- Global middleware ---
	app.Use(logger.New())
	app.Use(cors.New())

	// --- Public routes (no auth required) ---
	app.Get("/health", handlers.HealthCheck)
	app.Post("/auth/register", handlers.Register(cfg, db))
	app.Post("/auth/login", handlers.Login(cfg, db))

	// Live leaderboard feed. Spectating is public: connect to an event's feed
	// and receive a fresh leaderboard push after every accepted score.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events/:id", fiberws.New(websocket.ServeEvent(hub)))

	// --- Authenticated API routes ---
	// Everything under /api/v1 requires a valid token; Auth verifies it and
	// stores the user's ID and role in the request context.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))

	// Mutating routes are limited to admins and organizers; reads are open to
	// any authenticated user.
	manage := middleware.RequireRole("admin", "organizer")

	// Courses
	api.Get("/courses", handlers.GetCourses(db))
	api.Get("/courses/:id", handlers.GetCourse(db))
	api.Post("/courses", manage, handlers.CreateCourse(db))

	// Events
	api.Get("/events", handlers.GetEvents(db))
	api.Get("/events/:id", handlers.GetEvent(db))
	api.Post("/events", manage, handlers.CreateEvent(db))
	api.Put("/events/:id", manage, handlers.UpdateEvent(db))

	// Divisions
	api.Get("/events/:id/divisions", handlers.GetDivisions(db))
	api.Post("/events/:id/divisions", manage, handlers.CreateDivision(db))

	// Participants
	api.Get("/events/:id/participants", handlers.GetParticipants(db))
	api.Post("/events/:id/participants", manage, handlers.CreateParticipant(db))

	// Scorecards
	api.Get("/events/:id/participants/:pid/scores", handlers.GetScorecard(db))
	api.Post("/events/:id/participants/:pid/scores", manage, handlers.SubmitScore(db, hub))

	// Leaderboard and winners
	api.Get("/events/:id/leaderboard", handlers.GetLeaderboard(db))
	api.Get("/events/:id/winners", handlers.GetWinners(db))
	api.Post("/events/:id/winners", manage, handlers.CalculateWinners(db))

	log.Printf("Starting server on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
