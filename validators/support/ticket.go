package supportValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var validPriorities = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true}
var validCategories = map[string]bool{"GENERAL": true, "COURSE": true, "ASSESSMENT": true, "CERTIFICATE": true, "TECHNICAL": true}

// CreateSupportTicket validates a new ticket
func CreateSupportTicket() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			CourseID    *uint   `json:"course_id"`
			Priority    *string `json:"priority"`
			Category    *string `json:"category"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Description
		if len(strings.TrimSpace(reqData.Description)) < 10 {
			errors["description"] = "Description must be at least 10 characters long!"
		}

		if reqData.Priority != nil && !validPriorities[strings.ToUpper(*reqData.Priority)] {
			errors["priority"] = "Priority must be LOW, MEDIUM or HIGH!"
		}

		if reqData.Category != nil && !validCategories[strings.ToUpper(*reqData.Category)] {
			errors["category"] = "Invalid category!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSupportTicket", reqData)
		return c.Next()
	}
}

// TicketList validates pagination for the user ticket listing
func TicketList() fiber.Handler {
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

// AdminTicketList validates pagination and filters for the admin listing
func AdminTicketList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int    `json:"page"`
			Limit    *int    `json:"limit"`
			Status   *string `json:"status"`
			Priority *string `json:"priority"`
			Category *string `json:"category"`
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

		c.Locals("validatedTicketList", reqData)
		return c.Next()
	}
}
