package models

import "time"

type Notification struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;index"`
	User      User
	Title     string    `gorm:"size:100;not null"`
	Message   string    `gorm:"size:500;not null"`
	Read      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index"`
}
