package controllers

import (
	"log"

	"lms/database"
	"lms/engine"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetUserProgress returns the weighted progress of the user in a course,
// recomputed on every call
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	percentage, details, status := engine.CalculateProgress(
		database.Database.Db, engine.DefaultWeightPolicy(), userID, uint(courseID))
	if status == engine.ProgressError {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to calculate progress!", nil)
	}

	var progress courseModels.Progress
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&progress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"percentage":        percentage,
		"status":            status,
		"details":           details,
		"completed_lessons": progress.CompletedLessons,
		"points":            progress.Points,
		"time_spent":        progress.TimeSpent,
		"is_completed":      progress.IsCompleted,
	})
}

// MarkContentComplete marks a content item completed for the user and
// cascades lesson and course completion
func MarkContentComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	contentID := c.Locals("contentID").(int)

	var content courseModels.ContentItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", contentID, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	// Gradable content completes through the assessment flow only
	if content.ContentType == courseModels.ContentQuiz || content.ContentType == courseModels.ContentAssessment {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assessment content is completed by submitting the assessment!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, content.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	// Interactive content must satisfy its completion criteria first
	if content.ContentType == courseModels.ContentInteractive {
		verified, reason := engine.VerifyCompletion(database.Database.Db, userID, uint(contentID))
		if !verified {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Completion criteria not met: "+reason, nil)
		}
	}

	percentage, courseCompleted, err := engine.SyncContentCompletion(
		database.Database.Db, engine.DefaultWeightPolicy(), userID, uint(contentID), 0)
	if err != nil {
		log.Printf("Failed to sync completion for user %d content %d: %v", userID, contentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	if courseCompleted {
		handleCourseCompleted(user, content.CourseID)
	}
	dispatchPointsEvent(userID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked as complete!", fiber.Map{
		"course_percentage": percentage,
		"course_completed":  courseCompleted,
	})
}

// AddStudyTime records time spent on a course and runs time-based
// achievements against the new total
func AddStudyTime(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData := new(struct {
		Seconds int64 `json:"seconds"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.Seconds <= 0 || reqData.Seconds > 24*60*60 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid study time!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	if err := engine.AddStudyTime(database.Database.Db, userID, uint(courseID), reqData.Seconds); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record study time!", nil)
	}

	// Total across all courses drives the TIME achievements
	var totalTime int64
	database.Database.Db.Model(&courseModels.Progress{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Select("COALESCE(SUM(time_spent),0)").Scan(&totalTime)

	DispatchLearnerEvent(userID, courseModels.CriteriaTime, engine.EventData{StudyTime: totalTime})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Study time recorded.", fiber.Map{
		"total_time_spent": totalTime,
	})
}

// handleCourseCompleted fans out the side effects of a finished course
func handleCourseCompleted(user models.User, courseID uint) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err == nil {
		go utils.SendCourseCompletionEmail(user.Email, user.Name, course.Title)
	}

	DispatchLearnerEvent(user.ID, courseModels.CriteriaCourseCompletion, engine.EventData{CourseID: courseID})
}

// dispatchPointsEvent runs points-based achievements against the user's
// total points
func dispatchPointsEvent(userID uint) {
	var totalPoints int64
	database.Database.Db.Model(&courseModels.Progress{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Select("COALESCE(SUM(points),0)").Scan(&totalPoints)

	DispatchLearnerEvent(userID, courseModels.CriteriaPoints, engine.EventData{Points: int(totalPoints)})
}
