// Package handlers contains the HTTP route handler functions for the Tourney
// API. Each handler corresponds to one API endpoint and is responsible for
// reading the request, performing any business logic, and writing a response.
//
// Exported handlers follow the "handler factory" pattern: they take a
// *gorm.DB (and sometimes other dependencies) and return a fiber.Handler.
// This injects the database without global variables.
package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health.
// It returns a simple JSON response indicating the server is alive. No
// database queries, no authentication — used by load balancers and container
// probes to decide whether to send traffic here.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
