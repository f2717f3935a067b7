package engine

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateProgressNoLessons(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)

	percentage, details, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	assert.Equal(t, ProgressNoLessons, status)
	assert.Zero(t, percentage)
	assert.Nil(t, details)
}

func TestCalculateProgressNoContent(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	seedLesson(t, db, c.ID, 1, courseModels.DifficultyIntermediate)

	percentage, details, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	assert.Equal(t, ProgressNoContent, status)
	assert.Zero(t, percentage)
	assert.Nil(t, details)
}

func TestCalculateProgressAllCompleted(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l1 := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	l2 := seedLesson(t, db, c.ID, 1, courseModels.DifficultyAdvanced)
	items := []courseModels.ContentItem{
		seedContent(t, db, c.ID, l1.ID, courseModels.ContentTheory, 1.0, 0),
		seedContent(t, db, c.ID, l1.ID, courseModels.ContentQuiz, 2.0, 10),
		seedContent(t, db, c.ID, l2.ID, courseModels.ContentExercise, 1.5, 5),
	}
	for _, item := range items {
		markCompleted(t, db, 1, item.ID)
	}

	percentage, details, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	assert.Equal(t, 100.0, percentage)
	require.NotNil(t, details)
	assert.Equal(t, 3, details.CompletedCount)
	assert.Equal(t, 3, details.TotalCount)
	assert.Equal(t, 1.0, details.CompletionRatio)

	// Persisted on the progress record
	var progress courseModels.Progress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", 1, c.ID).First(&progress).Error)
	assert.Equal(t, 100.0, progress.Percentage)
	assert.NotEmpty(t, progress.Details)
}

func TestCalculateProgressNothingStarted(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	seedContent(t, db, c.ID, l.ID, courseModels.ContentTheory, 1.0, 0)

	percentage, details, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	assert.Zero(t, percentage)
	assert.Zero(t, details.CompletedCount)
}

func TestCalculateProgressWeightsContent(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	heavy := seedContent(t, db, c.ID, l.ID, courseModels.ContentAssessment, 3.0, 20)
	seedContent(t, db, c.ID, l.ID, courseModels.ContentTheory, 1.0, 0)

	markCompleted(t, db, 1, heavy.ID)

	// Single lesson: course percentage equals the lesson score, 3/(3+1)
	percentage, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	assert.InDelta(t, 75.0, percentage, 0.001)
}

func TestCalculateProgressInProgressFractions(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	partial := seedContent(t, db, c.ID, l.ID, courseModels.ContentInteractive, 1.0, 0)
	halfway := seedContent(t, db, c.ID, l.ID, courseModels.ContentExercise, 1.0, 0)

	// Explicit percentage counts as percentage/100
	require.NoError(t, SaveContentProgress(db, 1, partial.ID, courseModels.StatusInProgress, 40, 0))
	// In progress without a recorded percentage counts as 0.5
	require.NoError(t, SaveContentProgress(db, 1, halfway.ID, courseModels.StatusInProgress, 0, 0))

	percentage, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	assert.InDelta(t, 45.0, percentage, 0.001) // (0.4 + 0.5) / 2
}

func TestCalculateProgressIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l1 := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	l2 := seedLesson(t, db, c.ID, 1, courseModels.DifficultyExpert)
	done := seedContent(t, db, c.ID, l1.ID, courseModels.ContentTheory, 1.0, 0)
	seedContent(t, db, c.ID, l2.ID, courseModels.ContentQuiz, 2.0, 10)

	markCompleted(t, db, 1, done.ID)

	first, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)
	second, _, status := CalculateProgress(db, DefaultWeightPolicy(), 1, c.ID)
	require.Equal(t, ProgressOK, status)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0.0)
	assert.LessOrEqual(t, first, 100.0)
}

func TestLessonWeightPolicy(t *testing.T) {
	policy := DefaultWeightPolicy()

	beginner := courseModels.Lesson{Difficulty: courseModels.DifficultyBeginner}
	expert := courseModels.Lesson{Difficulty: courseModels.DifficultyExpert}

	assert.Equal(t, 1.0, policy.LessonWeight(beginner, 0))
	assert.Equal(t, 2.0, policy.LessonWeight(expert, 0))
	// Later lessons weigh more
	assert.Greater(t, policy.LessonWeight(beginner, 3), policy.LessonWeight(beginner, 0))
	// Unknown difficulty falls back to 1.0
	assert.Equal(t, 1.0, policy.LessonWeight(courseModels.Lesson{Difficulty: "NIGHTMARE"}, 0))
}

func TestContentWeightDefaults(t *testing.T) {
	assert.Equal(t, 1.0, ContentWeight(courseModels.ContentItem{}))
	assert.Equal(t, 2.5, ContentWeight(courseModels.ContentItem{Importance: 2.5}))
}
