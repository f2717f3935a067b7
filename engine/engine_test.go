package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.ContentItem{},
		&courseModels.UserContentProgress{},
		&courseModels.ContentState{},
		&courseModels.Assessment{},
		&courseModels.Question{},
		&courseModels.UserAnswer{},
		&courseModels.Progress{},
		&courseModels.CompletedLesson{},
		&courseModels.CompletedCourse{},
		&courseModels.Enrollment{},
		&courseModels.Achievement{},
		&courseModels.UserAchievement{},
	))
	return db
}

func mustJSON(t *testing.T, v interface{}) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

func seedCourse(t *testing.T, db *gorm.DB) courseModels.Course {
	t.Helper()
	c := courseModels.Course{Title: "Go from scratch", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uint, order int, difficulty string) courseModels.Lesson {
	t.Helper()
	l := courseModels.Lesson{
		CourseID:    courseID,
		Title:       fmt.Sprintf("Lesson %d", order+1),
		OrderIndex:  order,
		Difficulty:  difficulty,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func seedContent(t *testing.T, db *gorm.DB, courseID, lessonID uint, contentType string, importance float64, points int) courseModels.ContentItem {
	t.Helper()
	item := courseModels.ContentItem{
		CourseID:    courseID,
		LessonID:    lessonID,
		ContentType: contentType,
		Title:       "content",
		Importance:  importance,
		Points:      points,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func markCompleted(t *testing.T, db *gorm.DB, userID, contentID uint) {
	t.Helper()
	require.NoError(t, SaveContentProgress(db, userID, contentID, courseModels.StatusCompleted, 100, 0))
}
