package utils

import (
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/engine"
	"lms/models"
	"lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeStreakScheduler sets up the daily learning streak evaluation job
func InitializeStreakScheduler() {
	log.Println("[STREAK-SCHEDULER] Initializing streak scheduler...")

	c := cron.New()

	spec := config.AppConfig.StreakCronSpec
	if spec == "" {
		spec = "0 2 * * *"
	}

	_, err := c.AddFunc(spec, func() {
		log.Println("[STREAK-SCHEDULER] Running daily streak evaluation...")
		EvaluateLearningStreaks()
	})
	if err != nil {
		log.Printf("[STREAK-SCHEDULER] Invalid cron spec %q: %v", spec, err)
		return
	}

	c.Start()
	log.Printf("[STREAK-SCHEDULER] Streak scheduler started - runs on %q", spec)
}

// EvaluateLearningStreaks computes each active learner's consecutive-day
// activity streak and dispatches a STREAK event so matching achievements get
// granted
func EvaluateLearningStreaks() {
	db := database.Database.Db

	var users []models.User
	if err := db.Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		log.Printf("[STREAK-SCHEDULER] Error fetching users: %v", err)
		return
	}

	for _, user := range users {
		streak := currentStreakDays(user.ID)
		if streak == 0 {
			continue
		}

		granted := engine.ProcessEvent(db, user.ID, course.CriteriaStreak, engine.EventData{StreakDays: streak})
		for _, grant := range granted {
			var achievement course.Achievement
			if err := db.First(&achievement, grant.AchievementID).Error; err == nil {
				go SendAchievementEmail(user.Email, user.Name, achievement.Name)
				go NotifyAchievementWebhook(AchievementWebhookPayload{
					UserID:          user.ID,
					AchievementID:   achievement.ID,
					AchievementName: achievement.Name,
					EarnedAt:        grant.EarnedAt,
				})
			}
		}
	}

	log.Printf("[STREAK-SCHEDULER] Evaluated streaks for %d users", len(users))
}

// currentStreakDays counts consecutive days with recorded activity ending
// today or yesterday. A learner who was active yesterday but not yet today
// keeps the streak alive.
func currentStreakDays(userID uint) int {
	db := database.Database.Db

	var interactions []course.UserContentProgress
	since := time.Now().AddDate(0, 0, -366)
	if err := db.Where("user_id = ? AND last_interaction > ?", userID, since).
		Order("last_interaction desc").
		Find(&interactions).Error; err != nil {
		log.Printf("[STREAK-SCHEDULER] Error fetching activity for user %d: %v", userID, err)
		return 0
	}
	if len(interactions) == 0 {
		return 0
	}

	activeDays := make(map[string]bool)
	for _, interaction := range interactions {
		if interaction.LastInteraction != nil {
			activeDays[interaction.LastInteraction.Format("2006-01-02")] = true
		}
	}

	day := time.Now()
	if !activeDays[day.Format("2006-01-02")] {
		// No activity yet today; streak may still be running from yesterday
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for activeDays[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
