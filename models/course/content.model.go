package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content types supported by lessons
const (
	ContentTheory      = "THEORY"
	ContentExercise    = "EXERCISE"
	ContentQuiz        = "QUIZ"
	ContentAssessment  = "ASSESSMENT"
	ContentInteractive = "INTERACTIVE"
	ContentResource    = "RESOURCE"
)

// Per-user content progress status
const (
	StatusNotStarted = "NOT_STARTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// ContentItem represents a single piece of lesson material
type ContentItem struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	LessonID    uint   `json:"lesson_id" gorm:"index;not null"`
	ContentType string `json:"content_type" gorm:"default:'THEORY'"` // THEORY, EXERCISE, QUIZ, ASSESSMENT, INTERACTIVE, RESOURCE
	Title       string `json:"title"`
	Description string `json:"description"`
	TextContent string `json:"text_content" gorm:"type:text"` // For THEORY type
	VideoURL    string `json:"video_url"`
	ResourceURL string `json:"resource_url"` // For RESOURCE type
	// Weighting metadata used by progress aggregation
	Importance float64 `json:"importance" gorm:"default:1.0"`
	Points     int     `json:"points" gorm:"default:0"`
	// Completion rules for INTERACTIVE content (see engine.VerificationCriteria)
	VerificationCriteria datatypes.JSON `json:"verification_criteria"`
	OrderIndex           int            `json:"order_index" gorm:"default:0"`
	IsPublished          bool           `json:"is_published" gorm:"default:false"`
	IsDeleted            bool           `gorm:"default:false"`
}

// UserContentProgress tracks a user's progress on a single content item.
// One row per (user, content).
type UserContentProgress struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_content"`
	ContentID       uint       `json:"content_id" gorm:"not null;uniqueIndex:idx_user_content"`
	Status          string     `json:"status" gorm:"default:'NOT_STARTED'"`
	Percentage      float64    `json:"percentage" gorm:"default:0"` // 0-100
	Score           float64    `json:"score" gorm:"default:0"`
	LastInteraction *time.Time `json:"last_interaction"`
	IsDeleted       bool       `gorm:"default:false"`
}

// ContentState value kinds. Exactly one value column is populated per row,
// matching the kind.
const (
	StateKindNumeric    = "NUMERIC"
	StateKindStructured = "STRUCTURED"
	StateKindText       = "TEXT"
)

// Well-known state keys written by the engine
const (
	StateKeyInteractionHistory = "interaction_history"
	StateKeyCompletionStatus   = "completion_status"
	StateKeyCurrentStep        = "current_step"
	StateKeyAttemptsUsed       = "attempts_used"
	StateKeyOpenAttempt        = "open_attempt"
	StateKeyDeadline           = "assessment_deadline"
)

// ContentState holds one key of free-form interaction state for a user on a
// content item. One row per (user, content, key).
type ContentState struct {
	gorm.Model
	UserID          uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_content_state"`
	ContentID       uint           `json:"content_id" gorm:"not null;uniqueIndex:idx_user_content_state"`
	StateKey        string         `json:"state_key" gorm:"size:100;not null;uniqueIndex:idx_user_content_state"`
	ValueKind       string         `json:"value_kind" gorm:"size:20;not null"`
	NumericValue    *float64       `json:"numeric_value"`
	StructuredValue datatypes.JSON `json:"structured_value"`
	TextValue       *string        `json:"text_value"`
	IsDeleted       bool           `gorm:"default:false"`
}
