package models

import "time"

type OfferKind string

const (
	OfferDiscount OfferKind = "discount"
	OfferBonus    OfferKind = "bonus"
	OfferGeneral  OfferKind = "general"
)

func (k OfferKind) Valid() bool {
	switch k {
	case OfferDiscount, OfferBonus, OfferGeneral:
		return true
	}
	return false
}

// Offer: time-boxed promotion owned by a warehouse. DrugID nil means
// store-wide. Expired offers are not swept, they are filtered at read time.
type Offer struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:100;not null"`
	Subtitle    string    `gorm:"size:255"`
	Kind        OfferKind `gorm:"size:20;not null;default:'general'"`
	DrugID      *uint     `gorm:"index"`
	Drug        *Drug
	WarehouseID uint `gorm:"not null;index"`
	Warehouse   User
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null;index"`
	IsActive    bool      `gorm:"not null;default:true"`

	// discount offers
	DiscountPercentage float64 // [0,100]

	// bonus offers: for every BonusBase units ordered, BonusQuantity extra
	// units ship at zero price
	BonusBase     int
	BonusQuantity int

	// general offers
	FreeDelivery  bool
	MinOrderValue float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveAt reports whether the offer applies at the given instant.
func (o *Offer) ActiveAt(t time.Time) bool {
	return o.IsActive && !t.Before(o.StartDate) && !t.After(o.EndDate)
}
