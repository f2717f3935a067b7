package controllers

import (
	"log"

	"lms/database"
	"lms/engine"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
)

// DispatchLearnerEvent runs the achievement matcher for one learner event and
// fans out notifications for every badge it granted. Notification failures
// are logged; the grant itself is already durable.
func DispatchLearnerEvent(userID uint, eventType string, data engine.EventData) []courseModels.UserAchievement {
	db := database.Database.Db

	granted := engine.ProcessEvent(db, userID, eventType, data)
	if len(granted) == 0 {
		return granted
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("Failed to load user %d for achievement notifications: %v", userID, err)
		return granted
	}

	for _, grant := range granted {
		var achievement courseModels.Achievement
		if err := db.First(&achievement, grant.AchievementID).Error; err != nil {
			continue
		}
		go utils.SendAchievementEmail(user.Email, user.Name, achievement.Name)
		go utils.NotifyAchievementWebhook(utils.AchievementWebhookPayload{
			UserID:          userID,
			AchievementID:   achievement.ID,
			AchievementName: achievement.Name,
			EarnedAt:        grant.EarnedAt,
		})
	}

	return granted
}
