package engine

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteLessonIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l1 := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	l2 := seedLesson(t, db, c.ID, 1, courseModels.DifficultyBeginner)
	done := seedContent(t, db, c.ID, l1.ID, courseModels.ContentTheory, 1.0, 0)
	seedContent(t, db, c.ID, l2.ID, courseModels.ContentTheory, 1.0, 0)
	markCompleted(t, db, 1, done.ID)

	first, courseDone, err := CompleteLesson(db, DefaultWeightPolicy(), 1, l1.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.False(t, courseDone)

	percentage, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)

	second, courseDone, err := CompleteLesson(db, DefaultWeightPolicy(), 1, l1.ID)
	require.NoError(t, err)
	assert.False(t, courseDone)
	assert.Equal(t, first.ID, second.ID)

	// Percentage is not double-counted by re-completion
	again, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	assert.Equal(t, percentage, again)

	var count int64
	db.Model(&courseModels.CompletedLesson{}).Where("user_id = ? AND lesson_id = ?", 1, l1.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	db := newTestDB(t)

	record, courseDone, err := CompleteLesson(db, DefaultWeightPolicy(), 1, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, record)
	assert.False(t, courseDone)
}

func TestLastLessonFinalizesCourseAtomically(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l1 := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	l2 := seedLesson(t, db, c.ID, 1, courseModels.DifficultyAdvanced)
	first := seedContent(t, db, c.ID, l1.ID, courseModels.ContentTheory, 1.0, 0)
	last := seedContent(t, db, c.ID, l2.ID, courseModels.ContentQuiz, 1.0, 10)
	markCompleted(t, db, 1, first.ID)
	markCompleted(t, db, 1, last.ID)

	_, courseDone, err := CompleteLesson(db, DefaultWeightPolicy(), 1, l1.ID)
	require.NoError(t, err)
	assert.False(t, courseDone)

	_, courseDone, err = CompleteLesson(db, DefaultWeightPolicy(), 1, l2.ID)
	require.NoError(t, err)
	assert.True(t, courseDone)

	var progress courseModels.Progress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, c.ID).First(&progress).Error)
	assert.Equal(t, 100.0, progress.Percentage)
	assert.True(t, progress.IsCompleted)
	assert.Equal(t, 2, progress.CompletedLessons)

	var completions int64
	db.Model(&courseModels.CompletedCourse{}).Where("user_id = ? AND course_id = ?", 1, c.ID).Count(&completions)
	assert.EqualValues(t, 1, completions)

	// Re-completing the last lesson does not finalize again
	_, courseDone, err = CompleteLesson(db, DefaultWeightPolicy(), 1, l2.ID)
	require.NoError(t, err)
	assert.False(t, courseDone)
	db.Model(&courseModels.CompletedCourse{}).Where("user_id = ? AND course_id = ?", 1, c.ID).Count(&completions)
	assert.EqualValues(t, 1, completions)
}

func TestSyncContentCompletionCascades(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	only := seedContent(t, db, c.ID, l.ID, courseModels.ContentInteractive, 1.0, 25)

	percentage, courseDone, err := SyncContentCompletion(db, DefaultWeightPolicy(), 1, only.ID, 90)
	require.NoError(t, err)
	assert.Equal(t, 100.0, percentage)
	assert.True(t, courseDone)

	// Lesson and course completion rows exist
	var lessonDone int64
	db.Model(&courseModels.CompletedLesson{}).Where("user_id = ? AND lesson_id = ?", 1, l.ID).Count(&lessonDone)
	assert.EqualValues(t, 1, lessonDone)

	// First-time completion credited the item's points
	var progress courseModels.Progress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, c.ID).First(&progress).Error)
	assert.Equal(t, 25, progress.Points)

	// Completing again is a no-op for points and completions
	_, courseDone, err = SyncContentCompletion(db, DefaultWeightPolicy(), 1, only.ID, 95)
	require.NoError(t, err)
	assert.False(t, courseDone)
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, c.ID).First(&progress).Error)
	assert.Equal(t, 25, progress.Points)
}

func TestSyncContentCompletionUnknownContent(t *testing.T) {
	db := newTestDB(t)
	_, _, err := SyncContentCompletion(db, DefaultWeightPolicy(), 1, 12345, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddStudyTime(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)

	require.NoError(t, AddStudyTime(db, 1, c.ID, 120))
	require.NoError(t, AddStudyTime(db, 1, c.ID, 30))
	require.NoError(t, AddStudyTime(db, 1, c.ID, 0)) // ignored

	var progress courseModels.Progress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, c.ID).First(&progress).Error)
	assert.EqualValues(t, 150, progress.TimeSpent)
}
