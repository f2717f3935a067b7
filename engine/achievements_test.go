package engine

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAchievement(t *testing.T, db *gorm.DB, criteriaType string, requirements interface{}) courseModels.Achievement {
	t.Helper()
	a := courseModels.Achievement{
		Name:         "badge",
		CriteriaType: criteriaType,
		Requirements: mustJSON(t, requirements),
		Points:       10,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func TestProcessEventCourseCompletion(t *testing.T) {
	db := newTestDB(t)
	seedAchievement(t, db, courseModels.CriteriaCourseCompletion,
		map[string]interface{}{"course_ids": []uint{7, 9}})

	granted := ProcessEvent(db, 1, courseModels.CriteriaCourseCompletion, EventData{CourseID: 9})
	require.Len(t, granted, 1)

	// Wrong course does not qualify
	granted = ProcessEvent(db, 2, courseModels.CriteriaCourseCompletion, EventData{CourseID: 3})
	assert.Empty(t, granted)
}

func TestProcessEventIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedAchievement(t, db, courseModels.CriteriaPoints,
		map[string]interface{}{"points_required": 100})

	first := ProcessEvent(db, 1, courseModels.CriteriaPoints, EventData{Points: 150})
	require.Len(t, first, 1)

	second := ProcessEvent(db, 1, courseModels.CriteriaPoints, EventData{Points: 200})
	assert.Empty(t, second)

	var count int64
	db.Model(&courseModels.UserAchievement{}).Where("user_id = ?", 1).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAwardAchievementTwiceReturnsOriginalGrant(t *testing.T) {
	db := newTestDB(t)
	a := seedAchievement(t, db, courseModels.CriteriaStreak,
		map[string]interface{}{"days_required": 7})

	grant, created := AwardAchievement(db, 1, a.ID)
	require.NotNil(t, grant)
	assert.True(t, created)

	again, created := AwardAchievement(db, 1, a.ID)
	require.NotNil(t, again)
	assert.False(t, created)
	assert.Equal(t, grant.ID, again.ID)

	var count int64
	db.Model(&courseModels.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", 1, a.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCriteriaPredicates(t *testing.T) {
	tests := []struct {
		name         string
		criteriaType string
		requirements map[string]interface{}
		data         EventData
		want         bool
	}{
		{"streak met", courseModels.CriteriaStreak,
			map[string]interface{}{"days_required": 7}, EventData{StreakDays: 10}, true},
		{"streak short", courseModels.CriteriaStreak,
			map[string]interface{}{"days_required": 7}, EventData{StreakDays: 6}, false},
		{"time met", courseModels.CriteriaTime,
			map[string]interface{}{"time_required": 3600}, EventData{StudyTime: 4000}, true},
		{"time short", courseModels.CriteriaTime,
			map[string]interface{}{"time_required": 3600}, EventData{StudyTime: 100}, false},
		{"perfect score", courseModels.CriteriaPerfectScore,
			map[string]interface{}{"quiz_ids": []uint{4}}, EventData{QuizID: 4, Score: 100}, true},
		{"perfect score on wrong quiz", courseModels.CriteriaPerfectScore,
			map[string]interface{}{"quiz_ids": []uint{4}}, EventData{QuizID: 5, Score: 100}, false},
		{"almost perfect score", courseModels.CriteriaPerfectScore,
			map[string]interface{}{"quiz_ids": []uint{4}}, EventData{QuizID: 4, Score: 99.9}, false},
		{"points met", courseModels.CriteriaPoints,
			map[string]interface{}{"points_required": 50}, EventData{Points: 50}, true},
		{"zero points threshold grants immediately", courseModels.CriteriaPoints,
			map[string]interface{}{}, EventData{Points: 0}, true},
		{"zero streak threshold grants immediately", courseModels.CriteriaStreak,
			map[string]interface{}{}, EventData{StreakDays: 0}, true},
		{"perfect score on any quiz when list empty", courseModels.CriteriaPerfectScore,
			map[string]interface{}{}, EventData{QuizID: 12, Score: 100}, true},
		{"any course completion when list empty", courseModels.CriteriaCourseCompletion,
			map[string]interface{}{}, EventData{CourseID: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			seedAchievement(t, db, tt.criteriaType, tt.requirements)
			granted := ProcessEvent(db, 1, tt.criteriaType, tt.data)
			if tt.want {
				assert.Len(t, granted, 1)
			} else {
				assert.Empty(t, granted)
			}
		})
	}
}

func TestProcessEventSkipsInactiveAchievements(t *testing.T) {
	db := newTestDB(t)
	a := seedAchievement(t, db, courseModels.CriteriaPoints,
		map[string]interface{}{"points_required": 10})
	require.NoError(t, db.Model(&a).Update("is_active", false).Error)

	granted := ProcessEvent(db, 1, courseModels.CriteriaPoints, EventData{Points: 100})
	assert.Empty(t, granted)
}

func TestProcessEventMalformedRequirements(t *testing.T) {
	db := newTestDB(t)
	a := courseModels.Achievement{
		Name:         "broken",
		CriteriaType: courseModels.CriteriaPoints,
		Requirements: []byte(`{"points_required": "not a number"}`),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&a).Error)

	// Malformed criteria never grant and never panic
	granted := ProcessEvent(db, 1, courseModels.CriteriaPoints, EventData{Points: 1000})
	assert.Empty(t, granted)
}
