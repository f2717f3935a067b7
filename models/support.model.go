package models

import "gorm.io/gorm"

type SupportTicket struct {
	gorm.Model
	UserID      uint   `json:"user_id"`
	CourseID    *uint  `json:"course_id"` // optional link to a course
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"default:'OPEN'"`     // OPEN, IN_PROGRESS, RESOLVED, CLOSED
	Priority    string `json:"priority" gorm:"default:'MEDIUM'"` // LOW, MEDIUM, HIGH
	Category    string `json:"category" gorm:"default:'GENERAL'"`
	IsDeleted   bool   `json:"is_deleted" gorm:"default:false"`
}
