package models

import "time"

type LedgerType string

const (
	LedgerDebt    LedgerType = "debt"
	LedgerPayment LedgerType = "payment"
)

// LedgerEntry: append-only financial record between a pharmacist and a
// warehouse. Never updated or deleted.
type LedgerEntry struct {
	ID           uint `gorm:"primaryKey"`
	PharmacistID uint `gorm:"not null;index"`
	Pharmacist   User
	WarehouseID  uint `gorm:"not null;index"`
	Warehouse    User
	OrderID      *uint
	Order        *Order
	Type         LedgerType `gorm:"size:10;not null"`
	Amount       float64    `gorm:"not null"`
	Description  string     `gorm:"size:255"`
	CreatedAt    time.Time  `gorm:"index"`
}
