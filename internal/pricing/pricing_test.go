package pricing

import (
	"testing"
	"time"

	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func drugOffer(drugID uint, kind models.OfferKind) models.Offer {
	return models.Offer{
		ID:        1,
		Kind:      kind,
		DrugID:    &drugID,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
		IsActive:  true,
	}
}

func TestPriceLineDiscount(t *testing.T) {
	drug := &models.Drug{ID: 7, Price: 10000}
	offer := drugOffer(7, models.OfferDiscount)
	offer.DiscountPercentage = 20

	terms := PriceLine(drug, 5, []models.Offer{offer})

	assert.Equal(t, 8000.0, terms.UnitPrice)
	assert.Equal(t, 0, terms.BonusQty)
	assert.NotNil(t, terms.Offer)
}

func TestPriceLineDiscountClamped(t *testing.T) {
	drug := &models.Drug{ID: 7, Price: 10000}

	over := drugOffer(7, models.OfferDiscount)
	over.DiscountPercentage = 150
	assert.Equal(t, 0.0, PriceLine(drug, 1, []models.Offer{over}).UnitPrice)

	under := drugOffer(7, models.OfferDiscount)
	under.DiscountPercentage = -10
	assert.Equal(t, 10000.0, PriceLine(drug, 1, []models.Offer{under}).UnitPrice)
}

func TestPriceLineBonus(t *testing.T) {
	drug := &models.Drug{ID: 3, Price: 500}
	offer := drugOffer(3, models.OfferBonus)
	offer.BonusBase = 10
	offer.BonusQuantity = 2

	terms := PriceLine(drug, 25, []models.Offer{offer})

	assert.Equal(t, 500.0, terms.UnitPrice)
	assert.Equal(t, 4, terms.BonusQty) // floor(25/10) * 2
}

func TestPriceLineBonusZeroBase(t *testing.T) {
	drug := &models.Drug{ID: 3, Price: 500}
	offer := drugOffer(3, models.OfferBonus)
	offer.BonusBase = 0
	offer.BonusQuantity = 2

	terms := PriceLine(drug, 25, []models.Offer{offer})

	assert.Equal(t, 0, terms.BonusQty)
	assert.Nil(t, terms.Offer)
}

func TestPriceLineNoMatch(t *testing.T) {
	drug := &models.Drug{ID: 3, Price: 500}
	other := drugOffer(4, models.OfferDiscount)
	other.DiscountPercentage = 50

	terms := PriceLine(drug, 10, []models.Offer{other})

	assert.Equal(t, 500.0, terms.UnitPrice)
	assert.Nil(t, terms.Offer)
}

func TestPriceLineDrugSpecificBeatsStoreWide(t *testing.T) {
	drug := &models.Drug{ID: 3, Price: 1000}

	storeWide := models.Offer{ID: 1, Kind: models.OfferDiscount, DiscountPercentage: 50, IsActive: true}
	specific := drugOffer(3, models.OfferDiscount)
	specific.ID = 2
	specific.DiscountPercentage = 10

	// store-wide listed first, drug-specific must still win
	terms := PriceLine(drug, 1, []models.Offer{storeWide, specific})

	assert.Equal(t, 900.0, terms.UnitPrice)
	assert.Equal(t, uint(2), terms.Offer.ID)
}

func TestPriceLineFirstMatchWins(t *testing.T) {
	drug := &models.Drug{ID: 3, Price: 1000}

	first := drugOffer(3, models.OfferDiscount)
	first.ID = 1
	first.DiscountPercentage = 10
	second := drugOffer(3, models.OfferDiscount)
	second.ID = 2
	second.DiscountPercentage = 30

	terms := PriceLine(drug, 1, []models.Offer{first, second})

	assert.Equal(t, uint(1), terms.Offer.ID)
	assert.Equal(t, 900.0, terms.UnitPrice)
}

func TestFreeDeliveryThreshold(t *testing.T) {
	offers := []models.Offer{{
		Kind:          models.OfferGeneral,
		FreeDelivery:  true,
		MinOrderValue: 50000,
		IsActive:      true,
	}}

	assert.True(t, FreeDelivery(50000, offers), "subtotal at threshold qualifies")
	assert.False(t, FreeDelivery(49999, offers), "one unit below does not")
	assert.True(t, FreeDelivery(60000, offers))
}

func TestFreeDeliveryNoOffer(t *testing.T) {
	assert.False(t, FreeDelivery(1_000_000, nil))
}
