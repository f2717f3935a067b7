package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements lists every active achievement together with whether the
// user already earned it
func GetAchievements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var achievements []courseModels.Achievement
	if err := database.Database.Db.Where("is_active = ? AND is_deleted = ?", true, false).
		Order("created_at asc").Find(&achievements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch achievements!", nil)
	}

	var grants []courseModels.UserAchievement
	database.Database.Db.Where("user_id = ?", userID).Find(&grants)

	earned := make(map[uint]courseModels.UserAchievement, len(grants))
	for _, grant := range grants {
		earned[grant.AchievementID] = grant
	}

	type AchievementWithStatus struct {
		courseModels.Achievement
		Earned   bool   `json:"earned"`
		EarnedAt string `json:"earned_at,omitempty"`
	}

	result := make([]AchievementWithStatus, len(achievements))
	for i, achievement := range achievements {
		result[i] = AchievementWithStatus{Achievement: achievement}
		if grant, ok := earned[achievement.ID]; ok {
			result[i].Earned = true
			result[i].EarnedAt = grant.EarnedAt.Format("2006-01-02 15:04:05")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully!", fiber.Map{
		"achievements": result,
		"earned_count": len(grants),
	})
}

// GetUserAchievements lists only the achievements the user has earned
func GetUserAchievements(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var grants []courseModels.UserAchievement
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("earned_at desc").Find(&grants).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch achievements!", nil)
	}

	type EarnedAchievement struct {
		courseModels.Achievement
		EarnedAt string `json:"earned_at"`
	}

	result := make([]EarnedAchievement, 0, len(grants))
	for _, grant := range grants {
		var achievement courseModels.Achievement
		if err := database.Database.Db.First(&achievement, grant.AchievementID).Error; err != nil {
			continue
		}
		result = append(result, EarnedAchievement{
			Achievement: achievement,
			EarnedAt:    grant.EarnedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Earned achievements.", fiber.Map{
		"achievements": result,
		"total":        len(result),
	})
}
