package offers

import (
	"context"
	"time"

	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"gorm.io/gorm"
)

// Catalog exposes the read side used by the order engine.
type Catalog interface {
	// ActiveOffers returns the warehouse's offers that are flagged active
	// and whose validity window contains asOf. Expiry is filtered here at
	// read time, never swept. The result is ordered by start date then id,
	// which fixes the offer picked when several match the same drug.
	ActiveOffers(ctx context.Context, warehouseID uint, asOf time.Time) ([]models.Offer, error)
}

type gormCatalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) Catalog {
	return &gormCatalog{db: db}
}

func (c *gormCatalog) ActiveOffers(ctx context.Context, warehouseID uint, asOf time.Time) ([]models.Offer, error) {
	var offers []models.Offer
	err := database.FromContext(ctx, c.db).
		Where("warehouse_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			warehouseID, true, asOf, asOf).
		Order("start_date, id").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}
