// Handlers for /api/v1/events routes — creating, listing, and updating
// tournaments, plus their divisions.
//
// An event binds a course to a scoring type. The scoring type is fixed at
// creation while the event is upcoming and locked once play starts: changing
// the rules mid-round would invalidate every derived score already stored.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
)

// EventResponse is what we send back for an event. A dedicated response
// struct (instead of the raw GORM model) controls exactly which fields are
// serialized and lets us add computed fields like ParticipantCount.
type EventResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      *string `json:"description"`
	CourseID         string  `json:"course_id"`
	CourseName       string  `json:"course_name"`
	ScoringType      string  `json:"scoring_type"`
	System36Modified bool    `json:"system36_modified"`
	Status           string  `json:"status"`
	StartDate        *string `json:"start_date"`
	EndDate          *string `json:"end_date"`
	CreatorName      string  `json:"creator_name"`
	ParticipantCount int64   `json:"participant_count"`
	CreatedAt        string  `json:"created_at"`
}

// CreateEventRequest is the JSON body we expect on POST /api/v1/events.
type CreateEventRequest struct {
	Name             string  `json:"name"`
	Description      *string `json:"description"`
	CourseID         string  `json:"course_id"`
	ScoringType      string  `json:"scoring_type"` // "stroke", "net_stroke", "system_36", "stableford"
	System36Modified bool    `json:"system36_modified"`
	StartDate        *string `json:"start_date"` // "YYYY-MM-DD", optional
	EndDate          *string `json:"end_date"`
}

// UpdateEventRequest is the JSON body for PUT /api/v1/events/:id. Only the
// fields present are changed; scoring type is deliberately not updatable once
// the event has left "upcoming".
type UpdateEventRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// formatOptionalDate converts a *time.Time to a *string in "2006-01-02"
// format, preserving nil.
func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

// parseOptionalDate parses an optional "YYYY-MM-DD" string into a *time.Time.
// Nil or empty input yields nil; a malformed non-empty string is an error.
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateEvent returns a handler for POST /api/v1/events.
// Requires "admin" or "organizer" role (enforced by RequireRole on the route).
func CreateEvent(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDStr, _ := c.Locals("userID").(string)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid user ID",
			})
		}

		var req CreateEventRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name is required",
			})
		}

		scoringType := models.ScoringType(req.ScoringType)
		if !scoringType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "scoring_type must be 'stroke', 'net_stroke', 'system_36', or 'stableford'",
			})
		}
		if req.System36Modified && scoringType != models.ScoringTypeSystem36 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "system36_modified requires scoring_type 'system_36'",
			})
		}

		courseID, err := uuid.Parse(req.CourseID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid course_id",
			})
		}
		var course models.Course
		if err := db.First(&course, "id = ?", courseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "course not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		startDate, err := parseOptionalDate(req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start_date must be in YYYY-MM-DD format",
			})
		}
		endDate, err := parseOptionalDate(req.EndDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "end_date must be in YYYY-MM-DD format",
			})
		}

		event := models.Event{
			Name:             req.Name,
			Description:      req.Description,
			CourseID:         courseID,
			ScoringType:      scoringType,
			System36Modified: req.System36Modified,
			Status:           models.EventStatusUpcoming,
			StartDate:        startDate,
			EndDate:          endDate,
			CreatedBy:        userID,
		}
		if err := db.Create(&event).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create event",
			})
		}

		var creator models.User
		db.First(&creator, "id = ?", userID)
		event.Course = course
		event.Creator = creator

		return c.Status(fiber.StatusCreated).JSON(eventResponse(db, event))
	}
}

// GetEvents returns a handler for GET /api/v1/events.
// Optional query param: ?status=active (or any other EventStatus) to filter.
func GetEvents(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var events []models.Event
		query := db.Preload("Creator").Preload("Course").Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		if err := query.Find(&events).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch events",
			})
		}

		response := make([]EventResponse, 0, len(events))
		for _, event := range events {
			response = append(response, eventResponse(db, event))
		}
		return c.JSON(response)
	}
}

// GetEvent returns a handler for GET /api/v1/events/:id.
func GetEvent(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}
		return c.JSON(eventResponse(db, *event))
	}
}

// UpdateEvent returns a handler for PUT /api/v1/events/:id.
// Requires "admin" or "organizer" role. Handles the status lifecycle
// (upcoming → active → completed, or → cancelled) plus name/description/date
// edits.
func UpdateEvent(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		event, err := loadEvent(db, c.Params("id"))
		if err != nil {
			return respondEventError(c, err)
		}

		var req UpdateEventRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if req.Name != nil {
			if *req.Name == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "name cannot be empty",
				})
			}
			event.Name = *req.Name
		}
		if req.Description != nil {
			event.Description = req.Description
		}
		if req.Status != nil {
			switch models.EventStatus(*req.Status) {
			case models.EventStatusUpcoming, models.EventStatusActive,
				models.EventStatusCompleted, models.EventStatusCancelled:
				event.Status = models.EventStatus(*req.Status)
			default:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid status",
				})
			}
		}
		if req.StartDate != nil {
			startDate, err := parseOptionalDate(req.StartDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "start_date must be in YYYY-MM-DD format",
				})
			}
			event.StartDate = startDate
		}
		if req.EndDate != nil {
			endDate, err := parseOptionalDate(req.EndDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "end_date must be in YYYY-MM-DD format",
				})
			}
			event.EndDate = endDate
		}

		if err := db.Save(event).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update event",
			})
		}
		return c.JSON(eventResponse(db, *event))
	}
}

// loadEvent fetches an event by path parameter with its course and creator
// preloaded. Errors are sentinel-wrapped for respondEventError.
func loadEvent(db *gorm.DB, idParam string) (*models.Event, error) {
	eventID, err := uuid.Parse(idParam)
	if err != nil {
		return nil, errBadEventID
	}
	var event models.Event
	if err := db.Preload("Creator").Preload("Course").First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

var (
	errBadEventID    = fiber.NewError(fiber.StatusBadRequest, "invalid event ID")
	errEventNotFound = fiber.NewError(fiber.StatusNotFound, "event not found")
)

// respondEventError maps loadEvent errors onto JSON error responses.
func respondEventError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "database error",
	})
}

// eventResponse builds the response DTO, adding the participant count.
func eventResponse(db *gorm.DB, event models.Event) EventResponse {
	var participantCount int64
	db.Model(&models.Participant{}).
		Where("event_id = ?", event.ID).
		Count(&participantCount)

	return EventResponse{
		ID:               event.ID.String(),
		Name:             event.Name,
		Description:      event.Description,
		CourseID:         event.CourseID.String(),
		CourseName:       event.Course.Name,
		ScoringType:      string(event.ScoringType),
		System36Modified: event.System36Modified,
		Status:           string(event.Status),
		StartDate:        formatOptionalDate(event.StartDate),
		EndDate:          formatOptionalDate(event.EndDate),
		CreatorName:      event.Creator.DisplayName,
		ParticipantCount: participantCount,
		CreatedAt:        event.CreatedAt.UTC().Format(time.RFC3339),
	}
}
