package models

import "time"

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderAssigned       OrderStatus = "assigned"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderAssigned, OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type Order struct {
	ID           uint   `gorm:"primaryKey"`
	Reference    string `gorm:"size:36;uniqueIndex;not null"`
	PharmacistID uint   `gorm:"not null;index"`
	Pharmacist   User
	WarehouseID  uint `gorm:"not null;index"`
	Warehouse    User
	DriverID     *uint `gorm:"index"`
	Driver       *User
	Lines           []OrderLine `gorm:"constraint:OnDelete:CASCADE"`
	Status          OrderStatus `gorm:"size:20;not null;default:'pending';index"`
	DeliveryAddress string      `gorm:"size:255"`
	DeliveryFee     float64     `gorm:"not null;default:0"`
	IsFreeDelivery  bool        `gorm:"not null;default:false"`
	Notes           string      `gorm:"size:255"`
	CreatedAt       time.Time   `gorm:"index"`
	UpdatedAt       time.Time
}

// OrderLine: one priced position of an order. Bonus lines carry a zero unit
// price and reference the offer that granted them.
type OrderLine struct {
	ID             uint `gorm:"primaryKey"`
	OrderID        uint `gorm:"not null;index"`
	DrugID         uint `gorm:"not null"`
	Drug           Drug
	Quantity       int     `gorm:"not null"`
	UnitPrice      float64 `gorm:"not null"` // price actually charged
	IsBonus        bool    `gorm:"not null;default:false"`
	AppliedOfferID *uint
}
