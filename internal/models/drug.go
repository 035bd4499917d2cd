package models

import "time"

// Drug: per-warehouse stock record. Quantity is only ever changed through
// the conditional decrement/increment in the catalog store, never by a
// read-modify-write.
type Drug struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"size:100;not null;uniqueIndex:idx_drugs_name_warehouse"`
	GenericName  string  `gorm:"size:100;not null"`
	Category     string  `gorm:"size:50;index"`
	WarehouseID  uint    `gorm:"not null;index;uniqueIndex:idx_drugs_name_warehouse"`
	Warehouse    User
	Quantity     int     `gorm:"not null;default:0"`
	Price        float64 `gorm:"not null"`
	ExpiryDate   time.Time
	BatchNumber  string `gorm:"size:50"`
	Manufacturer string `gorm:"size:100"`
	Dosage       string `gorm:"size:50"` // e.g. 500mg
	DosageForm   string `gorm:"size:30"` // Tablet, Capsule, Syrup...
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
