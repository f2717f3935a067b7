package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Achievement criteria types. Each one matches a learner event type and has
// its own requirements shape (see engine.CriteriaRequirements).
const (
	CriteriaCourseCompletion = "COURSE_COMPLETION"
	CriteriaPoints           = "POINTS"
	CriteriaStreak           = "STREAK"
	CriteriaTime             = "TIME"
	CriteriaPerfectScore     = "PERFECT_SCORE"
)

// Achievement represents a badge a learner can earn
type Achievement struct {
	gorm.Model
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	IconURL      string         `json:"icon_url"`
	CriteriaType string         `json:"criteria_type" gorm:"size:50;not null"`
	Requirements datatypes.JSON `json:"requirements"` // shape depends on CriteriaType
	Points       int            `json:"points" gorm:"default:0"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	IsDeleted    bool           `gorm:"default:false"`
}

// UserAchievement is an idempotent grant, one row per (user, achievement).
// The unique index is the race guard for concurrent awards.
type UserAchievement struct {
	gorm.Model
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	EarnedAt      time.Time `json:"earned_at"`
}
