package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseReview creates or updates the user's review of a course
func CreateCourseReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReview").(*struct {
		CourseID uint   `json:"course_id"`
		Rating   int    `json:"rating"`
		Comment  string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Only enrolled learners can review
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, reqData.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var review courseModels.CourseReview
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, reqData.CourseID, false).First(&review).Error

	if err == nil {
		// Review exists, update it
		review.Rating = reqData.Rating
		review.Comment = reqData.Comment
		if err := database.Database.Db.Save(&review).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review", nil)
		}
		refreshCourseRating(reqData.CourseID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully", review)
	}

	newReview := courseModels.CourseReview{
		UserID:   userID,
		CourseID: reqData.CourseID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	if err := database.Database.Db.Create(&newReview).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review", nil)
	}

	refreshCourseRating(reqData.CourseID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review created successfully", newReview)
}

// GetCourseReviews lists reviews for a course with the average rating
func GetCourseReviews(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReviewList").(*struct {
		Page     *int `json:"page"`
		Limit    *int `json:"limit"`
		CourseID uint `json:"course_id"`
	})

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	var reviews []struct {
		ID        uint   `json:"id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		CreatedAt string `json:"created_at"`
	}

	if err := database.Database.Db.
		Table("course_reviews").
		Where("course_reviews.course_id = ? AND course_reviews.is_deleted = false", reqData.CourseID).
		Offset(offset).
		Limit(*reqData.Limit).
		Scan(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews", nil)
	}

	var total int64
	database.Database.Db.Model(&courseModels.CourseReview{}).
		Where("course_id = ? AND is_deleted = false", reqData.CourseID).
		Count(&total)

	var avgRating float64
	database.Database.Db.
		Table("course_reviews").
		Where("course_id = ? AND is_deleted = false", reqData.CourseID).
		Select("COALESCE(AVG(rating),0)").
		Scan(&avgRating)

	// Ensure empty array instead of null
	if reviews == nil {
		reviews = []struct {
			ID        uint   `json:"id"`
			Rating    int    `json:"rating"`
			Comment   string `json:"comment"`
			CreatedAt string `json:"created_at"`
		}{}
	}

	response := map[string]interface{}{
		"reviews": reviews,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
		"average_rating": avgRating,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews list fetched successfully", response)
}

// refreshCourseRating recomputes the denormalized course rating
func refreshCourseRating(courseID uint) {
	var avgRating float64
	database.Database.Db.
		Table("course_reviews").
		Where("course_id = ? AND is_deleted = false", courseID).
		Select("COALESCE(AVG(rating),0)").
		Scan(&avgRating)

	database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ?", courseID).
		Update("rating", avgRating)
}
