package engine

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateMultipleChoice(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerMultipleChoice,
		CorrectAnswer: []byte(`"Paris"`),
		Points:        5,
	}

	tests := []struct {
		name       string
		answer     interface{}
		wantOK     bool
		wantPoints int
	}{
		{"exact match", "Paris", true, 5},
		{"case insensitive", "paris", true, 5},
		{"surrounding whitespace", "  Paris  ", true, 5},
		{"wrong answer", "London", false, 0},
		{"empty answer", "", false, 0},
		{"nil answer", nil, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, points := EvaluateAnswer(q, tt.answer)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPoints, points)
		})
	}
}

func TestEvaluateTrueFalse(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerTrueFalse,
		CorrectAnswer: []byte(`"true"`),
		Points:        1,
	}

	ok, points := EvaluateAnswer(q, "TRUE")
	assert.True(t, ok)
	assert.Equal(t, 1, points)

	ok, points = EvaluateAnswer(q, "false")
	assert.False(t, ok)
	assert.Zero(t, points)
}

func TestEvaluateOpenEnded(t *testing.T) {
	q := courseModels.Question{
		AnswerType:        courseModels.AnswerOpenEnded,
		AcceptableAnswers: []byte(`["goroutine", "green thread"]`),
		Points:            3,
	}

	ok, points := EvaluateAnswer(q, "Green   Thread")
	assert.True(t, ok)
	assert.Equal(t, 3, points)

	ok, points = EvaluateAnswer(q, "coroutine")
	assert.False(t, ok)
	assert.Zero(t, points)
}

func TestEvaluateOpenEndedWithoutAcceptableAnswers(t *testing.T) {
	q := courseModels.Question{
		AnswerType: courseModels.AnswerOpenEnded,
		Points:     3,
	}

	ok, points := EvaluateAnswer(q, "anything")
	assert.False(t, ok)
	assert.Zero(t, points)
}

func TestEvaluateMathematical(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerMathematical,
		CorrectAnswer: []byte(`"x^2 + 1"`),
		Points:        4,
	}

	ok, points := EvaluateAnswer(q, " x^2 + 1 ")
	assert.True(t, ok)
	assert.Equal(t, 4, points)

	// No symbolic evaluation: an equivalent expression does not match
	ok, points = EvaluateAnswer(q, "1 + x^2")
	assert.False(t, ok)
	assert.Zero(t, points)

	// Case matters for mathematical answers
	ok, _ = EvaluateAnswer(q, "X^2 + 1")
	assert.False(t, ok)
}

func TestEvaluateMatchingPartialCredit(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerMatching,
		CorrectAnswer: []byte(`{"A": 1, "B": 2, "C": 3}`),
		Points:        6,
	}

	ok, points := EvaluateAnswer(q, map[string]interface{}{"A": 1, "B": 2, "C": 4})
	assert.False(t, ok)
	assert.Equal(t, 4, points)

	ok, points = EvaluateAnswer(q, map[string]interface{}{"A": 1, "B": 2, "C": 3})
	assert.True(t, ok)
	assert.Equal(t, 6, points)
}

func TestEvaluateMatchingRejectsNonMapping(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerMatching,
		CorrectAnswer: []byte(`{"A": 1}`),
		Points:        6,
	}

	ok, points := EvaluateAnswer(q, "A=1")
	assert.False(t, ok)
	assert.Zero(t, points)

	ok, points = EvaluateAnswer(q, []interface{}{"A", 1})
	assert.False(t, ok)
	assert.Zero(t, points)
}

func TestEvaluateCodeIsNotGradable(t *testing.T) {
	q := courseModels.Question{
		AnswerType:    courseModels.AnswerCode,
		CorrectAnswer: []byte(`"fmt.Println(42)"`),
		Points:        10,
	}

	ok, points := EvaluateAnswer(q, "fmt.Println(42)")
	assert.False(t, ok)
	assert.Zero(t, points)
}

func TestEvaluateUnknownType(t *testing.T) {
	q := courseModels.Question{AnswerType: "ESSAY", Points: 10}

	ok, points := EvaluateAnswer(q, "some essay")
	assert.False(t, ok)
	assert.Zero(t, points)
}
