package engine

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type assessmentFixture struct {
	course     courseModels.Course
	content    courseModels.ContentItem
	assessment courseModels.Assessment
	questions  []courseModels.Question
}

func seedAssessment(t *testing.T, db *gorm.DB, attemptsAllowed int, passingScore float64) assessmentFixture {
	t.Helper()
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyIntermediate)
	content := seedContent(t, db, c.ID, l.ID, courseModels.ContentAssessment, 1.0, 0)

	assessment := courseModels.Assessment{
		ContentID:       content.ID,
		PassingScore:    passingScore,
		AttemptsAllowed: attemptsAllowed,
	}
	require.NoError(t, db.Create(&assessment).Error)

	questions := []courseModels.Question{
		{
			AssessmentID:  assessment.ID,
			AnswerType:    courseModels.AnswerMultipleChoice,
			Prompt:        "1 + 1 = ?",
			CorrectAnswer: []byte(`"2"`),
			Points:        1,
			OrderIndex:    0,
		},
		{
			AssessmentID:  assessment.ID,
			AnswerType:    courseModels.AnswerMultipleChoice,
			Prompt:        "Capital of France?",
			CorrectAnswer: []byte(`"Paris"`),
			Points:        3,
			OrderIndex:    1,
		},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	return assessmentFixture{course: c, content: content, assessment: assessment, questions: questions}
}

func TestStartAssessmentConsumesAttempt(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 2, 60)

	first, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.AttemptNumber)
	assert.Equal(t, 2, first.QuestionCount)
	assert.Nil(t, first.EndTime) // no time limit configured

	second, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
}

func TestStartAssessmentExhaustedAttempts(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 1, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)

	_, err = StartAssessment(db, 1, fx.content.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	// The counter is unchanged by the rejected start
	counter := GetState(db, 1, fx.content.ID, courseModels.StateKeyAttemptsUsed)
	require.NotNil(t, counter)
	require.NotNil(t, counter.NumericValue)
	assert.Equal(t, 1.0, *counter.NumericValue)
}

func TestStartAssessmentRecordsDeadline(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)
	require.NoError(t, db.Model(&fx.assessment).Update("time_limit_minutes", 30).Error)

	result, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	require.NotNil(t, result.EndTime)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *result.EndTime, 5*time.Second)
}

func TestStartAssessmentOnPlainContent(t *testing.T) {
	db := newTestDB(t)
	c := seedCourse(t, db)
	l := seedLesson(t, db, c.ID, 0, courseModels.DifficultyBeginner)
	theory := seedContent(t, db, c.ID, l.ID, courseModels.ContentTheory, 1.0, 0)

	_, err := StartAssessment(db, 1, theory.ID)
	assert.ErrorIs(t, err, ErrNotAssessment)
}

func TestCompleteAssessmentPartialScore(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)

	// Answer only the 1-point question, correctly
	answer, err := SubmitAnswer(db, 1, fx.content.ID, fx.questions[0].ID, "2")
	require.NoError(t, err)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, 1, answer.PointsEarned)

	result, err := CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.Score) // 1 of 4 points
	assert.False(t, result.Passed)      // 25 < 60
	assert.Equal(t, 1, result.EarnedPoints)
	assert.Equal(t, 4, result.MaxPoints)
	require.Len(t, result.Questions, 2)
	assert.True(t, result.Questions[0].Answered)
	assert.False(t, result.Questions[1].Answered)
	assert.Equal(t, 3, result.Questions[1].Points)
}

func TestCompleteAssessmentPassing(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 25)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	_, err = SubmitAnswer(db, 1, fx.content.ID, fx.questions[0].ID, "2")
	require.NoError(t, err)

	result, err := CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, result.Score)
	assert.True(t, result.Passed) // 25 >= 25
}

func TestCompleteAssessmentRejectsLateSubmission(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)

	// Force the deadline into the past
	expired := float64(time.Now().Add(-time.Minute).Unix())
	require.NoError(t, SetNumericState(db, 1, fx.content.ID, courseModels.StateKeyDeadline, expired))

	_, err = CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	assert.ErrorIs(t, err, ErrDeadlinePassed)
}

func TestCompleteAssessmentWithoutStart(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 1, 60)

	_, err := CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	assert.ErrorIs(t, err, ErrNoOpenAttempt)
}

func TestCompleteAssessmentClosesTheAttempt(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 1, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	_, err = CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	require.NoError(t, err)

	// The attempt is closed; completing again needs a fresh start
	_, err = CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	assert.ErrorIs(t, err, ErrNoOpenAttempt)

	// And with the single allowed attempt consumed, no fresh start exists
	_, err = StartAssessment(db, 1, fx.content.ID)
	assert.ErrorIs(t, err, ErrAttemptsExhausted)

	// The replayed history still shows exactly one completed attempt
	attempts := AttemptHistory(db, 1, fx.content.ID)
	require.Len(t, attempts, 1)
	assert.NotNil(t, attempts[0].CompletedAt)
}

func TestSubmitAnswerLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)

	wrong, err := SubmitAnswer(db, 1, fx.content.ID, fx.questions[0].ID, "3")
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)

	corrected, err := SubmitAnswer(db, 1, fx.content.ID, fx.questions[0].ID, "2")
	require.NoError(t, err)
	assert.True(t, corrected.IsCorrect)
	assert.Equal(t, wrong.ID, corrected.ID)

	var count int64
	db.Model(&courseModels.UserAnswer{}).
		Where("user_id = ? AND question_id = ?", 1, fx.questions[0].ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)

	_, err := SubmitAnswer(db, 1, fx.content.ID, 9999, "2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttemptHistoryReplay(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 5, 10)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	_, err = CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	require.NoError(t, err)

	_, err = StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)

	attempts := AttemptHistory(db, 1, fx.content.ID)
	require.Len(t, attempts, 2)

	assert.Equal(t, 1, attempts[0].Number)
	require.NotNil(t, attempts[0].CompletedAt)
	require.NotNil(t, attempts[0].Score)
	assert.Equal(t, 0.0, *attempts[0].Score)

	assert.Equal(t, 2, attempts[1].Number)
	assert.Nil(t, attempts[1].CompletedAt)
}

func TestCompleteAssessmentMarksContentCompleted(t *testing.T) {
	db := newTestDB(t)
	fx := seedAssessment(t, db, 3, 60)

	_, err := StartAssessment(db, 1, fx.content.ID)
	require.NoError(t, err)
	_, err = SubmitAnswer(db, 1, fx.content.ID, fx.questions[0].ID, "2")
	require.NoError(t, err)
	_, err = SubmitAnswer(db, 1, fx.content.ID, fx.questions[1].ID, "paris")
	require.NoError(t, err)

	result, err := CompleteAssessment(db, DefaultWeightPolicy(), 1, fx.content.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.Score)
	assert.True(t, result.Passed)
	assert.True(t, result.CourseCompleted) // only content in the only lesson

	var record courseModels.UserContentProgress
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", 1, fx.content.ID).First(&record).Error)
	assert.Equal(t, courseModels.StatusCompleted, record.Status)
	assert.Equal(t, 100.0, record.Score)
}
