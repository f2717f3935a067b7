package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress is the per-course aggregate for a user. Created lazily on first
// course access, finalized exactly once when the course completes.
type Progress struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_progress"`
	CourseID         uint           `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_progress"`
	Percentage       float64        `json:"percentage" gorm:"default:0"` // 0-100
	CompletedLessons int            `json:"completed_lessons" gorm:"default:0"`
	Points           int            `json:"points" gorm:"default:0"`
	TimeSpent        int64          `json:"time_spent" gorm:"default:0"` // seconds
	IsCompleted      bool           `json:"is_completed" gorm:"default:false"`
	Details          datatypes.JSON `json:"details"` // breakdown written by the progress calculator
	IsDeleted        bool           `gorm:"default:false"`
}

// CompletedLesson is append-only, one row per (user, lesson)
type CompletedLesson struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_lesson_done"`
	LessonID    uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_user_lesson_done"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	CompletedAt time.Time `json:"completed_at"`
}

// CompletedCourse is append-only, one row per (user, course)
type CompletedCourse struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_done"`
	CourseID    uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_done"`
	CompletedAt time.Time `json:"completed_at"`
}

// Enrollment tracks a user's membership in a course. The computed aggregate
// lives on Progress; enrollment is the access record.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_course_enroll"`
	CourseID    uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_user_course_enroll"`
	Status      string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
