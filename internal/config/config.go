// Package config handles loading and validating runtime configuration for the
// Tourney API. Configuration values (like the database URL and API port) are
// read from environment variables rather than being hardcoded, so the same
// binary can run in dev, staging, and production by swapping the environment.
package config

import (
	"os"

	// godotenv reads a .env file and loads its key=value pairs into the process
	// environment. Convenient in development: put secrets in a .env file and
	// they're automatically available. In production, real env vars are used.
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port        string // TCP port the HTTP server listens on (e.g., "8080")
	DatabaseURL string // PostgreSQL connection string
	JWTSecret   string // HMAC secret used to sign and verify auth tokens
	Env         string // "development", "staging", or "production"
}

// Load reads configuration from environment variables and returns a populated
// Config. A .env file is loaded first if present; the error from godotenv is
// intentionally discarded because a missing .env is normal in production.
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		// Default to "development" so local runs don't accidentally behave
		// like production.
		env = "development"
	}

	return &Config{
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"), // Required — server fails to start without it
		JWTSecret:   os.Getenv("JWT_SECRET"),   // Required — tokens cannot be signed or verified without it
		Env:         env,
	}
}
