package engine

import (
	"encoding/json"
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// EventData carries the payload of a learner event. Only the fields relevant
// to the event type are read.
type EventData struct {
	CourseID   uint    `json:"course_id,omitempty"`
	Points     int     `json:"points,omitempty"`
	StreakDays int     `json:"streak_days,omitempty"`
	StudyTime  int64   `json:"study_time,omitempty"` // seconds
	QuizID     uint    `json:"quiz_id,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// CriteriaRequirements is the decoded requirements object of an achievement.
// The populated fields depend on the criteria type.
type CriteriaRequirements struct {
	CourseIDs      []uint `json:"course_ids,omitempty"`
	PointsRequired int    `json:"points_required,omitempty"`
	DaysRequired   int    `json:"days_required,omitempty"`
	TimeRequired   int64  `json:"time_required,omitempty"`
	QuizIDs        []uint `json:"quiz_ids,omitempty"`
}

// ProcessEvent matches a learner event against every active achievement the
// user does not own yet and grants the qualifying ones. Grants are
// idempotent; failures are logged and skipped so one bad achievement never
// blocks the rest.
func ProcessEvent(db *gorm.DB, userID uint, eventType string, data EventData) []courseModels.UserAchievement {
	var achievements []courseModels.Achievement
	if err := db.Where("criteria_type = ? AND is_active = ? AND is_deleted = ?",
		eventType, true, false).Find(&achievements).Error; err != nil {
		log.Printf("[ENGINE] achievements: failed to fetch achievements for event %s: %v", eventType, err)
		return nil
	}

	var granted []courseModels.UserAchievement
	for _, achievement := range achievements {
		if !criteriaMatches(achievement, data) {
			continue
		}
		grant, created := AwardAchievement(db, userID, achievement.ID)
		if grant != nil && created {
			granted = append(granted, *grant)
		}
	}
	return granted
}

// criteriaMatches evaluates the type-specific predicate for one achievement
func criteriaMatches(achievement courseModels.Achievement, data EventData) bool {
	var req CriteriaRequirements
	if len(achievement.Requirements) > 0 {
		if err := json.Unmarshal(achievement.Requirements, &req); err != nil {
			log.Printf("[ENGINE] achievements: malformed requirements on achievement %d: %v", achievement.ID, err)
			return false
		}
	}

	// An empty ID list means any course/quiz qualifies; numeric thresholds
	// are plain >= comparisons, so a zero threshold grants on the first event
	switch achievement.CriteriaType {
	case courseModels.CriteriaCourseCompletion:
		return data.CourseID > 0 && (len(req.CourseIDs) == 0 || containsID(req.CourseIDs, data.CourseID))
	case courseModels.CriteriaPoints:
		return data.Points >= req.PointsRequired
	case courseModels.CriteriaStreak:
		return data.StreakDays >= req.DaysRequired
	case courseModels.CriteriaTime:
		return data.StudyTime >= req.TimeRequired
	case courseModels.CriteriaPerfectScore:
		return data.Score == 100 && (len(req.QuizIDs) == 0 || containsID(req.QuizIDs, data.QuizID))
	default:
		return false
	}
}

// AwardAchievement grants an achievement to a user exactly once. Re-awarding
// returns the existing grant with created=false. The unique index on
// (user_id, achievement_id) is the guard against concurrent awards; the
// existence check is just the fast path.
func AwardAchievement(db *gorm.DB, userID, achievementID uint) (*courseModels.UserAchievement, bool) {
	var existing courseModels.UserAchievement
	err := db.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&existing).Error
	if err == nil {
		return &existing, false
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("[ENGINE] achievements: failed to check grant %d/%d: %v", userID, achievementID, err)
		return nil, false
	}

	grant := courseModels.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	if err := db.Create(&grant).Error; err != nil {
		// Unique index rejected a concurrent duplicate; return the winner
		if fetchErr := db.Where("user_id = ? AND achievement_id = ?",
			userID, achievementID).First(&existing).Error; fetchErr == nil {
			return &existing, false
		}
		log.Printf("[ENGINE] achievements: failed to create grant %d/%d: %v", userID, achievementID, err)
		return nil, false
	}
	return &grant, true
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
