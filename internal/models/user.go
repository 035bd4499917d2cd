package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RolePharmacist UserRole = "pharmacist"
	RoleWarehouse  UserRole = "warehouse"
	RoleDriver     UserRole = "driver"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RolePharmacist, RoleWarehouse, RoleDriver:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	PharmacyName string   `gorm:"size:100"` // only meaningful for pharmacist accounts
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	Phone        string   `gorm:"size:30"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;index"`
	Address      string   `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
