package controllers

import (
	"lms/database"
	"lms/engine"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourseDetails gets course details with lessons for users
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Get lessons in course order
	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons)

	// Check if user is enrolled
	var enrollment courseModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&enrollment).Error == nil

	response := fiber.Map{
		"course":      course,
		"lessons":     lessons,
		"is_enrolled": isEnrolled,
	}

	if isEnrolled {
		response["enrollment"] = enrollment

		// Recompute the weighted percentage so the detail page is never stale
		percentage, details, status := engine.CalculateProgress(
			database.Database.Db, engine.DefaultWeightPolicy(), userID, uint(courseID))
		if status == engine.ProgressOK || status == engine.ProgressNoContent {
			response["progress"] = fiber.Map{
				"percentage": percentage,
				"details":    details,
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}
