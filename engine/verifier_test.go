package engine

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInteractive(t *testing.T, db *gorm.DB, criteria interface{}) courseModels.ContentItem {
	t.Helper()
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	item := courseModels.ContentItem{
		CourseID:    c.ID,
		LessonID:    l.ID,
		ContentType: courseModels.ContentInteractive,
		Title:       "drag the blocks",
		Importance:  1.0,
		IsPublished: true,
	}
	if criteria != nil {
		item.VerificationCriteria = mustJSON(t, criteria)
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestVerifyCompletionMissingEvent(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, map[string]interface{}{
		"required_events": []string{"click", "submit"},
	})

	require.NoError(t, RecordInteraction(db, 1, item.ID, InteractionEvent{Type: "click"}))

	done, message := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)
	assert.Contains(t, message, "submit")
	assert.NotContains(t, message, "click")
}

func TestVerifyCompletionAllCriteriaMet(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, map[string]interface{}{
		"required_states": map[string]interface{}{"color": "red"},
		"required_events": []string{"click"},
	})

	require.NoError(t, SetTextState(db, 1, item.ID, "color", "red"))
	require.NoError(t, RecordInteraction(db, 1, item.ID, InteractionEvent{Type: "click"}))

	done, message := VerifyCompletion(db, 1, item.ID)
	assert.True(t, done)
	assert.Equal(t, "All completion criteria met", message)

	var record courseModels.UserContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", 1, item.ID).First(&record).Error)
	assert.Equal(t, courseModels.StatusCompleted, record.Status)
	assert.Equal(t, 100.0, record.Percentage)
}

func TestVerifyCompletionStateMismatch(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, map[string]interface{}{
		"required_states": map[string]interface{}{"answer": float64(42)},
	})

	require.NoError(t, SetNumericState(db, 1, item.ID, "answer", 41))

	done, message := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)
	assert.Contains(t, message, "answer")
}

func TestVerifyCompletionStepsCriteria(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, map[string]interface{}{
		"custom_criteria": "steps_completed",
		"total_steps":     5,
	})

	require.NoError(t, SetNumericState(db, 1, item.ID, courseModels.StateKeyCurrentStep, 3))
	done, message := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)
	assert.Contains(t, message, "3 of 5")

	require.NoError(t, SetNumericState(db, 1, item.ID, courseModels.StateKeyCurrentStep, 5))
	done, _ = VerifyCompletion(db, 1, item.ID)
	assert.True(t, done)
}

func TestVerifyCompletionPartialPercentageCapped(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, map[string]interface{}{
		"required_states": map[string]interface{}{"a": "1", "b": "2"},
		"required_events": []string{"finish"},
	})

	// Two of three criteria met
	require.NoError(t, SetTextState(db, 1, item.ID, "a", "1"))
	require.NoError(t, SetTextState(db, 1, item.ID, "b", "2"))

	done, _ := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)

	var record courseModels.UserContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", 1, item.ID).First(&record).Error)
	assert.Equal(t, courseModels.StatusInProgress, record.Status)
	assert.InDelta(t, 100.0*2/3, record.Percentage, 0.001)
	assert.LessOrEqual(t, record.Percentage, 99.0)
}

func TestVerifyCompletionFallbackFlag(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, nil)

	done, message := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)
	assert.Equal(t, "Activity not completed", message)

	require.NoError(t, SetStructuredState(db, 1, item.ID, courseModels.StateKeyCompletionStatus,
		map[string]interface{}{"is_completed": true}))

	done, message = VerifyCompletion(db, 1, item.ID)
	assert.True(t, done)
	assert.Equal(t, "All completion criteria met", message)
}

func TestVerifyCompletionNeverDowngradesCompleted(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, nil)
	markCompleted(t, db, 1, item.ID)

	// A failed re-verification reports false but the record stays completed
	done, message := VerifyCompletion(db, 1, item.ID)
	assert.False(t, done)
	assert.Equal(t, "Activity not completed", message)

	var record courseModels.UserContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", 1, item.ID).First(&record).Error)
	assert.Equal(t, courseModels.StatusCompleted, record.Status)
	assert.Equal(t, 100.0, record.Percentage)
}

func TestContentStateSlotsAreExclusive(t *testing.T) {
	db := newTestDB(t)
	item := seedInteractive(t, db, nil)

	require.NoError(t, SetNumericState(db, 1, item.ID, "score", 10))
	require.NoError(t, SetTextState(db, 1, item.ID, "score", "ten"))

	state := GetState(db, 1, item.ID, "score")
	require.NotNil(t, state)
	assert.Equal(t, courseModels.StateKindText, state.ValueKind)
	assert.Nil(t, state.NumericValue)
	assert.Nil(t, state.StructuredValue)
	require.NotNil(t, state.TextValue)
	assert.Equal(t, "ten", *state.TextValue)
}
