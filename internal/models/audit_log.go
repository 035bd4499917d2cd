package models

import "time"

// AuditLog: one row per mutating API request. Metadata holds the filtered
// request body as JSON.
type AuditLog struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    *uint `gorm:"index"`
	User      *User
	Method    string    `gorm:"size:10;not null"`
	Path      string    `gorm:"size:255;not null"`
	Metadata  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}
