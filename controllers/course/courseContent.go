package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetLessonContent gets the content items of a lesson together with the
// user's per-item progress. Quiz and assessment items carry their questions
// without the grading keys.
func GetLessonContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	// Check lesson exists
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?",
		lessonID, courseID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var contents []courseModels.ContentItem
	if err := database.Database.Db.Where("lesson_id = ? AND is_deleted = ? AND is_published = ?",
		lessonID, false, true).Order("order_index asc").Find(&contents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch content!", nil)
	}

	type ContentWithProgress struct {
		courseModels.ContentItem
		Status     string                  `json:"status"`
		Percentage float64                 `json:"percentage"`
		Score      float64                 `json:"score"`
		Questions  []courseModels.Question `json:"questions,omitempty"`
	}

	result := make([]ContentWithProgress, len(contents))
	for i, content := range contents {
		result[i] = ContentWithProgress{
			ContentItem: content,
			Status:      courseModels.StatusNotStarted,
		}

		var progress courseModels.UserContentProgress
		if err := database.Database.Db.Where("user_id = ? AND content_id = ? AND is_deleted = ?",
			userID, content.ID, false).First(&progress).Error; err == nil {
			result[i].Status = progress.Status
			result[i].Percentage = progress.Percentage
			result[i].Score = progress.Score
		}

		// Attach questions for gradable content. CorrectAnswer and
		// AcceptableAnswers are json:"-" so the keys never leave the server.
		if content.ContentType == courseModels.ContentQuiz || content.ContentType == courseModels.ContentAssessment {
			var assessment courseModels.Assessment
			if err := database.Database.Db.Where("content_id = ? AND is_deleted = ?",
				content.ID, false).First(&assessment).Error; err == nil {
				var questions []courseModels.Question
				database.Database.Db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).
					Order("order_index asc").Find(&questions)
				result[i].Questions = questions
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson content fetched successfully!", fiber.Map{
		"lesson":   lesson,
		"contents": result,
	})
}
