package courseValidator

import (
	"strconv"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// CourseID validates the :courseId route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// LessonID validates the :lessonId route parameter
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "lessonId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}
		c.Locals("lessonID", id)
		return c.Next()
	}
}

// ContentID validates the :contentId route parameter
func ContentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "contentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid content ID!", nil)
		}
		c.Locals("contentID", id)
		return c.Next()
	}
}

// ListCourses validates pagination for the course catalog
func ListCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// CreateReview validates a course review submission
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint   `json:"course_id"`
			Rating   int    `json:"rating"`
			Comment  string `json:"comment"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// ListReviews validates pagination for a course review listing
func ListReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}

		query := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})
		if err := c.QueryParser(query); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request!", nil)
		}

		errors := make(map[string]string)

		if query.Page == nil || *query.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		if query.Limit == nil || *query.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData := &struct {
			Page     *int `json:"page"`
			Limit    *int `json:"limit"`
			CourseID uint `json:"course_id"`
		}{
			Page:     query.Page,
			Limit:    query.Limit,
			CourseID: uint(courseID),
		}

		c.Locals("validatedReviewList", reqData)
		return c.Next()
	}
}
