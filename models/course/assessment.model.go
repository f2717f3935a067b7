package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question answer types
const (
	AnswerMultipleChoice = "MULTIPLE_CHOICE"
	AnswerTrueFalse      = "TRUE_FALSE"
	AnswerOpenEnded      = "OPEN_ENDED"
	AnswerMathematical   = "MATHEMATICAL"
	AnswerMatching       = "MATCHING"
	AnswerCode           = "CODE"
)

// Assessment holds the grading rules for an ASSESSMENT or QUIZ content item
type Assessment struct {
	gorm.Model
	ContentID        uint    `json:"content_id" gorm:"uniqueIndex;not null"`
	TimeLimitMinutes int     `json:"time_limit_minutes" gorm:"default:0"` // 0 = no limit
	PassingScore     float64 `json:"passing_score" gorm:"default:60"`     // 0-100
	AttemptsAllowed  int     `json:"attempts_allowed" gorm:"default:3"`
	IsDeleted        bool    `gorm:"default:false"`
}

// Question represents a single question within an assessment.
// CorrectAnswer holds a JSON string for choice/math questions and a JSON
// object (key -> value pairs) for MATCHING questions. AcceptableAnswers is a
// JSON array of strings for OPEN_ENDED questions.
type Question struct {
	gorm.Model
	AssessmentID      uint           `json:"assessment_id" gorm:"index;not null"`
	AnswerType        string         `json:"answer_type" gorm:"default:'MULTIPLE_CHOICE'"`
	Prompt            string         `json:"prompt" gorm:"type:text"`
	Options           datatypes.JSON `json:"options"` // JSON array of option texts
	CorrectAnswer     datatypes.JSON `json:"-"`
	AcceptableAnswers datatypes.JSON `json:"-"`
	Points            int            `json:"points" gorm:"default:1"`
	OrderIndex        int            `json:"order_index" gorm:"default:0"`
	IsDeleted         bool           `gorm:"default:false"`
}

// UserAnswer records a submitted answer for one question
type UserAnswer struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	QuestionID   uint           `json:"question_id" gorm:"index;not null"`
	Answer       datatypes.JSON `json:"answer"`
	IsCorrect    bool           `json:"is_correct" gorm:"default:false"`
	PointsEarned int            `json:"points_earned" gorm:"default:0"`
	IsDeleted    bool           `gorm:"default:false"`
}
