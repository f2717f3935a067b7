package engine

import (
	"log"
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// SyncContentCompletion marks a content item completed for a user and
// reconciles the aggregates: course percentage is recomputed, first-time
// completions add the item's points, and finishing the last open content of
// the last lesson cascades into lesson and course completion. Returns the
// fresh course percentage and whether this call completed the course.
func SyncContentCompletion(db *gorm.DB, policy WeightPolicy, userID, contentID uint, score float64) (float64, bool, error) {
	var item courseModels.ContentItem
	if err := db.Where("id = ? AND is_deleted = ?", contentID, false).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, ErrNotFound
		}
		return 0, false, err
	}

	firstCompletion := !isContentCompleted(db, userID, contentID)
	if err := SaveContentProgress(db, userID, contentID, courseModels.StatusCompleted, 100, score); err != nil {
		return 0, false, err
	}

	if firstCompletion && item.Points > 0 {
		if progress, err := getOrCreateProgress(db, userID, item.CourseID); err == nil {
			db.Model(progress).UpdateColumn("points", gorm.Expr("points + ?", item.Points))
		}
	}

	courseCompleted := false
	if lessonFullyCompleted(db, userID, item.LessonID) {
		_, done, err := CompleteLesson(db, policy, userID, item.LessonID)
		if err != nil {
			log.Printf("[ENGINE] sync: failed to cascade lesson completion %d/%d: %v", userID, item.LessonID, err)
		}
		courseCompleted = done
	}

	percentage, _, status := CalculateProgress(db, policy, userID, item.CourseID)
	if status != ProgressOK {
		log.Printf("[ENGINE] sync: progress recompute returned %s for user %d course %d", status, userID, item.CourseID)
	}
	return percentage, courseCompleted, nil
}

// CompleteLesson records a lesson completion exactly once. Re-completing is a
// no-op returning the original record. Completing the last remaining lesson
// finalizes the course atomically: percentage 100, completed flag, and the
// CompletedCourse record happen in one transaction. The second return
// reports whether this call completed the course.
func CompleteLesson(db *gorm.DB, policy WeightPolicy, userID, lessonID uint) (*courseModels.CompletedLesson, bool, error) {
	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	var existing courseModels.CompletedLesson
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	record := courseModels.CompletedLesson{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    lesson.CourseID,
		CompletedAt: time.Now(),
	}
	if err := db.Create(&record).Error; err != nil {
		// Unique index rejected a concurrent duplicate
		if fetchErr := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&existing).Error; fetchErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}

	progress, err := getOrCreateProgress(db, userID, lesson.CourseID)
	if err != nil {
		return &record, false, err
	}

	var completedCount int64
	db.Model(&courseModels.CompletedLesson{}).
		Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).Count(&completedCount)
	db.Model(progress).UpdateColumn("completed_lessons", completedCount)

	var totalLessons int64
	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", lesson.CourseID, false).Count(&totalLessons).Error; err != nil {
		return &record, false, err
	}

	if totalLessons == 0 || completedCount < totalLessons {
		return &record, false, nil
	}

	completed, err := finalizeCourse(db, userID, lesson.CourseID, progress.ID)
	return &record, completed, err
}

// finalizeCourse flips the course to completed in one atomic unit. A failure
// between the percentage update and the CompletedCourse insert rolls
// everything back. Returns true only for the call that created the record.
func finalizeCourse(db *gorm.DB, userID, courseID, progressID uint) (bool, error) {
	var existing courseModels.CompletedCourse
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&courseModels.Progress{}).Where("id = ?", progressID).
			Updates(map[string]interface{}{
				"percentage":   100.0,
				"is_completed": true,
			}).Error; err != nil {
			return err
		}

		if err := tx.Create(&courseModels.CompletedCourse{
			UserID:      userID,
			CourseID:    courseID,
			CompletedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		// Keep the enrollment record in step with the aggregate
		now := time.Now()
		return tx.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
			Updates(map[string]interface{}{
				"status":       courseModels.StatusCompleted,
				"completed_at": &now,
			}).Error
	})
	if err != nil {
		// A concurrent finalize may have won the unique index race
		if fetchErr := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; fetchErr == nil {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddStudyTime accumulates seconds of study time on the course aggregate
func AddStudyTime(db *gorm.DB, userID, courseID uint, seconds int64) error {
	if seconds <= 0 {
		return nil
	}
	progress, err := getOrCreateProgress(db, userID, courseID)
	if err != nil {
		return err
	}
	return db.Model(progress).UpdateColumn("time_spent", gorm.Expr("time_spent + ?", seconds)).Error
}

func isContentCompleted(db *gorm.DB, userID, contentID uint) bool {
	var record courseModels.UserContentProgress
	err := db.Where("user_id = ? AND content_id = ? AND status = ? AND is_deleted = ?",
		userID, contentID, courseModels.StatusCompleted, false).First(&record).Error
	return err == nil
}

// lessonFullyCompleted reports whether every published content item of a
// lesson is completed for the user
func lessonFullyCompleted(db *gorm.DB, userID, lessonID uint) bool {
	var contentIDs []uint
	if err := db.Model(&courseModels.ContentItem{}).
		Where("lesson_id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).
		Pluck("id", &contentIDs).Error; err != nil || len(contentIDs) == 0 {
		return false
	}

	var completedCount int64
	if err := db.Model(&courseModels.UserContentProgress{}).
		Where("user_id = ? AND content_id IN ? AND status = ? AND is_deleted = ?",
			userID, contentIDs, courseModels.StatusCompleted, false).
		Count(&completedCount).Error; err != nil {
		return false
	}
	return completedCount == int64(len(contentIDs))
}
