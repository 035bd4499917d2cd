package models

import "time"

// PharmacistStock: quantity of a drug owned by a pharmacist, incremented by
// the reconciliation engine when an order is delivered. The composite unique
// index guarantees at most one record per (pharmacist, drug) pair.
type PharmacistStock struct {
	ID           uint `gorm:"primaryKey"`
	PharmacistID uint `gorm:"not null;uniqueIndex:idx_pharmacist_drug"`
	Pharmacist   User
	DrugID       uint `gorm:"not null;uniqueIndex:idx_pharmacist_drug"`
	Drug         Drug
	Quantity     int `gorm:"not null;default:0"`
	Threshold    int `gorm:"not null;default:10"` // low-stock warning level
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
