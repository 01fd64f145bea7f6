// Handlers for /api/v1/courses routes — creating and reading golf courses and
// their per-hole details. Hole data matters beyond display: par feeds the
// points formulas and the handicap index decides where handicap strokes land,
// so the create path validates the hole set strictly.
package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/tourney/internal/models"
)

// HoleRequest is one hole in a course create request.
type HoleRequest struct {
	Number        int  `json:"number"`
	Par           int  `json:"par"`
	HandicapIndex int  `json:"handicap_index"` // 1 = hardest hole
	Distance      *int `json:"distance"`       // yards, optional
}

// CreateCourseRequest is the JSON body we expect on POST /api/v1/courses.
// The full hole set is supplied at creation — a course without holes can't
// score anything.
type CreateCourseRequest struct {
	Name  string        `json:"name"`
	City  string        `json:"city"`
	State string        `json:"state"`
	Holes []HoleRequest `json:"holes"`
}

// HoleResponse mirrors HoleRequest for reads.
type HoleResponse struct {
	ID            string `json:"id"`
	Number        int    `json:"number"`
	Par           int    `json:"par"`
	HandicapIndex int    `json:"handicap_index"`
	Distance      *int   `json:"distance"`
}

// CourseResponse is what we send back for a course.
type CourseResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	HoleCount int            `json:"hole_count"`
	Par       int            `json:"par"`
	Holes     []HoleResponse `json:"holes,omitempty"`
}

// validateHoles checks that a hole set is playable: 9 or 18 holes, numbers
// and handicap indexes each covering 1..N exactly once, and plausible pars.
// Returns a human-readable reason on failure.
func validateHoles(holes []HoleRequest) error {
	n := len(holes)
	if n != 9 && n != 18 {
		return fmt.Errorf("a course must have 9 or 18 holes, got %d", n)
	}
	numbers := make(map[int]bool, n)
	indexes := make(map[int]bool, n)
	for _, h := range holes {
		if h.Number < 1 || h.Number > n {
			return fmt.Errorf("hole number %d out of range 1-%d", h.Number, n)
		}
		if numbers[h.Number] {
			return fmt.Errorf("duplicate hole number %d", h.Number)
		}
		numbers[h.Number] = true

		if h.HandicapIndex < 1 || h.HandicapIndex > n {
			return fmt.Errorf("handicap index %d out of range 1-%d", h.HandicapIndex, n)
		}
		if indexes[h.HandicapIndex] {
			return fmt.Errorf("duplicate handicap index %d", h.HandicapIndex)
		}
		indexes[h.HandicapIndex] = true

		if h.Par < 3 || h.Par > 6 {
			return fmt.Errorf("hole %d: par must be between 3 and 6", h.Number)
		}
	}
	return nil
}

// CreateCourse returns a handler for POST /api/v1/courses.
// Requires "admin" or "organizer" role (enforced by RequireRole on the
// route). The course row and all hole rows are written in one transaction so
// a partially-created course can never exist.
func CreateCourse(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateCourseRequest
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
		if err := validateHoles(req.Holes); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		totalPar := 0
		for _, h := range req.Holes {
			totalPar += h.Par
		}

		var created models.Course
		txErr := db.Transaction(func(tx *gorm.DB) error {
			course := models.Course{
				Name:      req.Name,
				City:      req.City,
				State:     req.State,
				HoleCount: len(req.Holes),
				Par:       totalPar,
			}
			if err := tx.Create(&course).Error; err != nil {
				return err
			}
			for _, h := range req.Holes {
				hole := models.Hole{
					CourseID:      course.ID,
					Number:        h.Number,
					Par:           h.Par,
					HandicapIndex: h.HandicapIndex,
					Distance:      h.Distance,
				}
				if err := tx.Create(&hole).Error; err != nil {
					return err
				}
			}
			created = course
			return nil
		})
		if txErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create course",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(courseResponse(created, nil))
	}
}

// GetCourses returns a handler for GET /api/v1/courses — all courses without
// hole detail (fetch a single course for that).
func GetCourses(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var courses []models.Course
		if err := db.Order("name").Find(&courses).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch courses",
			})
		}
		response := make([]CourseResponse, 0, len(courses))
		for _, course := range courses {
			response = append(response, courseResponse(course, nil))
		}
		return c.JSON(response)
	}
}

// GetCourse returns a handler for GET /api/v1/courses/:id — one course with
// its full hole set, ordered by hole number.
func GetCourse(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid course ID",
			})
		}

		var course models.Course
		err = db.Preload("Holes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("number")
		}).First(&course, "id = ?", courseID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "course not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch course",
			})
		}

		return c.JSON(courseResponse(course, course.Holes))
	}
}

// courseResponse builds the response DTO; holes may be nil for list views.
func courseResponse(course models.Course, holes []models.Hole) CourseResponse {
	resp := CourseResponse{
		ID:        course.ID.String(),
		Name:      course.Name,
		City:      course.City,
		State:     course.State,
		HoleCount: course.HoleCount,
		Par:       course.Par,
	}
	for _, h := range holes {
		resp.Holes = append(resp.Holes, HoleResponse{
			ID:            h.ID.String(),
			Number:        h.Number,
			Par:           h.Par,
			HandicapIndex: h.HandicapIndex,
			Distance:      h.Distance,
		})
	}
	return resp
}
