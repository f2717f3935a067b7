package engine

import (
	"encoding/json"
	"log"

	courseModels "lms/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress calculation statuses
const (
	ProgressOK        = "ok"
	ProgressNoLessons = "no_lessons"
	ProgressNoContent = "no_content"
	ProgressError     = "error"
)

// ProgressDetails is the breakdown persisted alongside the course percentage
type ProgressDetails struct {
	CompletedCount  int              `json:"completed_count"`
	TotalCount      int              `json:"total_count"`
	CompletionRatio float64          `json:"completion_ratio"`
	ContentWeights  map[uint]float64 `json:"content_weights"`
	LessonWeights   map[uint]float64 `json:"lesson_weights"`
}

// CalculateProgress aggregates per-content completion into a weighted course
// percentage and persists it on the user's Progress record. It is idempotent
// and safe to call on every content-completion event. Any lookup failure
// returns ProgressError and leaves persisted state untouched.
func CalculateProgress(db *gorm.DB, policy WeightPolicy, userID, courseID uint) (float64, *ProgressDetails, string) {
	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		log.Printf("[ENGINE] progress: failed to fetch lessons for course %d: %v", courseID, err)
		return 0, nil, ProgressError
	}
	if len(lessons) == 0 {
		return 0, nil, ProgressNoLessons
	}

	details := &ProgressDetails{
		ContentWeights: make(map[uint]float64),
		LessonWeights:  make(map[uint]float64),
	}

	var weightedSum, lessonWeightSum float64
	for i, lesson := range lessons {
		var contents []courseModels.ContentItem
		if err := db.Where("lesson_id = ? AND is_deleted = ? AND is_published = ?",
			lesson.ID, false, true).Order("order_index asc").Find(&contents).Error; err != nil {
			log.Printf("[ENGINE] progress: failed to fetch content for lesson %d: %v", lesson.ID, err)
			return 0, nil, ProgressError
		}

		lessonWeight := policy.LessonWeight(lesson, i)
		details.LessonWeights[lesson.ID] = lessonWeight

		var contribution, contentWeightSum float64
		for _, item := range contents {
			weight := ContentWeight(item)
			details.ContentWeights[item.ID] = weight
			contentWeightSum += weight

			fraction, completed, ok := completionFraction(db, userID, item.ID)
			if !ok {
				return 0, nil, ProgressError
			}
			contribution += fraction * weight
			details.TotalCount++
			if completed {
				details.CompletedCount++
			}
		}

		lessonScore := 0.0
		if contentWeightSum > 0 {
			lessonScore = contribution / contentWeightSum
		}
		weightedSum += lessonScore * lessonWeight
		lessonWeightSum += lessonWeight
	}

	if details.TotalCount == 0 {
		return 0, nil, ProgressNoContent
	}
	if lessonWeightSum == 0 {
		log.Printf("[ENGINE] progress: zero lesson weight sum for course %d", courseID)
		return 0, nil, ProgressError
	}

	percentage := clampPercentage(100 * weightedSum / lessonWeightSum)
	details.CompletionRatio = float64(details.CompletedCount) / float64(details.TotalCount)

	if err := persistProgress(db, userID, courseID, percentage, details); err != nil {
		log.Printf("[ENGINE] progress: failed to persist progress for user %d course %d: %v", userID, courseID, err)
		return 0, nil, ProgressError
	}
	return percentage, details, ProgressOK
}

// completionFraction derives how much of one content item counts as done.
// The third return is false on a storage failure.
func completionFraction(db *gorm.DB, userID, contentID uint) (float64, bool, bool) {
	var record courseModels.UserContentProgress
	err := db.Where("user_id = ? AND content_id = ? AND is_deleted = ?",
		userID, contentID, false).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, true
		}
		log.Printf("[ENGINE] progress: failed to fetch content progress %d/%d: %v", userID, contentID, err)
		return 0, false, false
	}

	switch record.Status {
	case courseModels.StatusCompleted:
		return 1.0, true, true
	case courseModels.StatusInProgress:
		if record.Percentage > 0 {
			return record.Percentage / 100, false, true
		}
		return 0.5, false, true
	default:
		return 0, false, true
	}
}

// persistProgress lazily creates the Progress row and writes the computed
// percentage plus breakdown in a single update.
func persistProgress(db *gorm.DB, userID, courseID uint, percentage float64, details *ProgressDetails) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}

	progress, err := getOrCreateProgress(db, userID, courseID)
	if err != nil {
		return err
	}

	return db.Model(progress).Updates(map[string]interface{}{
		"percentage": percentage,
		"details":    datatypes.JSON(raw),
	}).Error
}

// getOrCreateProgress returns the Progress row for (user, course), creating
// it on first access
func getOrCreateProgress(db *gorm.DB, userID, courseID uint) (*courseModels.Progress, error) {
	var progress courseModels.Progress
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
		userID, courseID, false).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	progress = courseModels.Progress{UserID: userID, CourseID: courseID}
	if err := db.Create(&progress).Error; err != nil {
		// Lost a concurrent create; fall back to the existing row
		if fetchErr := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?",
			userID, courseID, false).First(&progress).Error; fetchErr != nil {
			return nil, err
		}
	}
	return &progress, nil
}

func clampPercentage(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
