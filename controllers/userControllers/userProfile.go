package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/models/course"

	"github.com/gofiber/fiber/v2"
)

func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Password = ""

	// Learning summary shown on the profile page
	var enrolledCount, completedCount int64
	database.Database.Db.Model(&course.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userId, false).Count(&enrolledCount)
	database.Database.Db.Model(&course.CompletedCourse{}).
		Where("user_id = ?", userId).Count(&completedCount)

	var totalPoints int64
	database.Database.Db.Model(&course.Progress{}).
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Select("COALESCE(SUM(points),0)").Scan(&totalPoints)

	var achievementCount int64
	database.Database.Db.Model(&course.UserAchievement{}).
		Where("user_id = ?", userId).Count(&achievementCount)

	response := map[string]interface{}{
		"user": user,
		"stats": map[string]interface{}{
			"enrolledCourses":  enrolledCount,
			"completedCourses": completedCount,
			"totalPoints":      totalPoints,
			"achievements":     achievementCount,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", response)
}

func UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Name         string `json:"name"`
		Bio          string `json:"bio"`
		ProfileImage string `json:"profile_image"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}
	if reqData.ProfileImage != "" {
		user.ProfileImage = reqData.ProfileImage
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}
