package course

import "gorm.io/gorm"

// Lesson difficulty levels, ordered easiest to hardest
const (
	DifficultyBeginner     = "BEGINNER"
	DifficultyIntermediate = "INTERMEDIATE"
	DifficultyAdvanced     = "ADVANCED"
	DifficultyExpert       = "EXPERT"
)

// Lesson represents a section within a course
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Lesson order in course
	Difficulty  string `json:"difficulty" gorm:"default:'BEGINNER'"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
