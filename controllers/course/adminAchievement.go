package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AchievementPayload is the admin request body for creating or updating
// an achievement. Requirements shape depends on CriteriaType.
type AchievementPayload struct {
	Name         string                 `json:"name" validate:"required,min=3"`
	Description  string                 `json:"description"`
	IconURL      string                 `json:"icon_url"`
	CriteriaType string                 `json:"criteria_type" validate:"required,oneof=COURSE_COMPLETION POINTS STREAK TIME PERFECT_SCORE"`
	Requirements map[string]interface{} `json:"requirements"`
	Points       int                    `json:"points" validate:"gte=0"`
	IsActive     *bool                  `json:"is_active"`
}

// AdminCreateAchievement creates a new achievement definition
func AdminCreateAchievement(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedAchievement").(*AchievementPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var requirements datatypes.JSON
	if reqData.Requirements != nil {
		raw, err := json.Marshal(reqData.Requirements)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid requirements payload!", nil)
		}
		requirements = datatypes.JSON(raw)
	}

	achievement := courseModels.Achievement{
		Name:         reqData.Name,
		Description:  reqData.Description,
		IconURL:      reqData.IconURL,
		CriteriaType: reqData.CriteriaType,
		Requirements: requirements,
		Points:       reqData.Points,
		IsActive:     true,
	}
	if reqData.IsActive != nil {
		achievement.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Create(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Achievement created successfully!", achievement)
}

// AdminUpdateAchievement updates an existing achievement definition
func AdminUpdateAchievement(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	achievementID := c.Locals("achievementID").(int)

	reqData, ok := c.Locals("validatedAchievementUpdate").(*AchievementPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var achievement courseModels.Achievement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", achievementID, false).
		First(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Achievement not found!", nil)
	}

	if reqData.Name != "" {
		achievement.Name = reqData.Name
	}
	if reqData.Description != "" {
		achievement.Description = reqData.Description
	}
	if reqData.IconURL != "" {
		achievement.IconURL = reqData.IconURL
	}
	if reqData.CriteriaType != "" {
		achievement.CriteriaType = reqData.CriteriaType
	}
	if reqData.Requirements != nil {
		raw, err := json.Marshal(reqData.Requirements)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid requirements payload!", nil)
		}
		achievement.Requirements = datatypes.JSON(raw)
	}
	if reqData.Points > 0 {
		achievement.Points = reqData.Points
	}
	if reqData.IsActive != nil {
		achievement.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement updated successfully!", achievement)
}

// AdminDeleteAchievement soft deletes an achievement. Existing grants stay
// on the learner records.
func AdminDeleteAchievement(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	achievementID := c.Locals("achievementID").(int)

	var achievement courseModels.Achievement
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", achievementID, false).
		First(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Achievement not found!", nil)
	}

	achievement.IsDeleted = true
	achievement.IsActive = false
	if err := database.Database.Db.Save(&achievement).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete achievement!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement deleted successfully!", nil)
}

// AdminListAchievements lists every achievement, active or not, with the
// number of learners who earned each one
func AdminListAchievements(c *fiber.Ctx) error {
	if requireAdmin(c) == nil {
		return nil
	}

	var achievements []courseModels.Achievement
	if err := database.Database.Db.Where("is_deleted = ?", false).
		Order("created_at asc").Find(&achievements).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch achievements!", nil)
	}

	type AchievementWithCount struct {
		courseModels.Achievement
		EarnedBy int64 `json:"earned_by"`
	}

	result := make([]AchievementWithCount, len(achievements))
	for i, achievement := range achievements {
		var count int64
		database.Database.Db.Model(&courseModels.UserAchievement{}).
			Where("achievement_id = ?", achievement.ID).Count(&count)
		result[i] = AchievementWithCount{Achievement: achievement, EarnedBy: count}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully!", fiber.Map{
		"achievements": result,
		"total":        len(result),
	})
}
