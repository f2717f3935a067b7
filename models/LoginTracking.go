package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records one successful sign-in per row; the login history
// endpoint pages over it.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"` // raw User-Agent header
	Timestamp time.Time `json:"timestamp"`
	IsDeleted bool      `json:"is_deleted" gorm:"default:false"`
}
