package controllers

import (
	"errors"
	"log"

	"lms/database"
	"lms/engine"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// StartAssessment opens a new attempt for an assessment or quiz content item
func StartAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	if err := requireEnrollmentForContent(c, userID, uint(contentID)); err != nil {
		return nil // response already written
	}

	result, err := engine.StartAssessment(database.Database.Db, userID, uint(contentID))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
		case errors.Is(err, engine.ErrNotAssessment):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an assessment!", nil)
		case errors.Is(err, engine.ErrAttemptsExhausted):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No attempts remaining for this assessment!", nil)
		default:
			log.Printf("Failed to start assessment for user %d content %d: %v", userID, contentID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start assessment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment started.", result)
}

// SubmitAnswer grades and stores one answer. Resubmitting a question replaces
// the previous answer.
func SubmitAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	reqData := new(struct {
		QuestionID uint        `json:"question_id"`
		Answer     interface{} `json:"answer"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.QuestionID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "question_id is required!", nil)
	}

	record, err := engine.SubmitAnswer(database.Database.Db, userID, uint(contentID), reqData.QuestionID, reqData.Answer)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
		case errors.Is(err, engine.ErrNotAssessment):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an assessment!", nil)
		default:
			log.Printf("Failed to submit answer for user %d content %d: %v", userID, contentID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
		}
	}

	// Correctness is revealed only at completion time
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted.", fiber.Map{
		"question_id": record.QuestionID,
	})
}

// CompleteAssessment grades the whole attempt and syncs course progress
func CompleteAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	contentID := c.Locals("contentID").(int)

	result, err := engine.CompleteAssessment(
		database.Database.Db, engine.DefaultWeightPolicy(), userID, uint(contentID))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
		case errors.Is(err, engine.ErrNotAssessment):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Content is not an assessment!", nil)
		case errors.Is(err, engine.ErrDeadlinePassed):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The time limit for this assessment has passed!", nil)
		case errors.Is(err, engine.ErrNoOpenAttempt):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "No assessment attempt in progress!", nil)
		default:
			log.Printf("Failed to complete assessment for user %d content %d: %v", userID, contentID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete assessment!", nil)
		}
	}

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ?", contentID).First(&content).Error; err == nil {
		if result.Score == 100 {
			DispatchLearnerEvent(userID, courseModels.CriteriaPerfectScore, engine.EventData{
				QuizID: uint(contentID),
				Score:  result.Score,
			})
		}
		if result.CourseCompleted {
			handleCourseCompleted(user, content.CourseID)
		}
	}
	dispatchPointsEvent(userID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment completed.", result)
}

// GetAttemptHistory returns the user's attempts on one assessment, rebuilt
// from the interaction log
func GetAttemptHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	contentID := c.Locals("contentID").(int)

	attempts := engine.AttemptHistory(database.Database.Db, userID, uint(contentID))
	if attempts == nil {
		attempts = []engine.Attempt{}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt history.", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}

// requireEnrollmentForContent writes a response and returns an error when the
// user is not enrolled in the course owning the content item
func requireEnrollmentForContent(c *fiber.Ctx, userID, contentID uint) error {
	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
		return err
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, content.CourseID, false).First(&enrollment).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		return err
	}

	return nil
}
