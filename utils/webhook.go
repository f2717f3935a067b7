package utils

import (
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// AchievementWebhookPayload is posted to the configured webhook whenever an
// achievement is granted
type AchievementWebhookPayload struct {
	UserID          uint      `json:"user_id"`
	AchievementID   uint      `json:"achievement_id"`
	AchievementName string    `json:"achievement_name"`
	EarnedAt        time.Time `json:"earned_at"`
}

// NotifyAchievementWebhook posts an achievement grant to the configured
// webhook URL. Failures are logged, never surfaced to the caller.
func NotifyAchievementWebhook(payload AchievementWebhookPayload) {
	url := config.AppConfig.AchievementWebhookURL
	if url == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		log.Printf("Achievement webhook failed: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Achievement webhook returned status %d", resp.StatusCode())
	}
}
