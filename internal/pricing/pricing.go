// Package pricing maps a requested order line and the warehouse's active
// offers to the terms actually charged. All functions are pure.
package pricing

import "github.com/alaazayood/viatica-backend/internal/models"

// LineTerms is the outcome of pricing one requested line.
type LineTerms struct {
	UnitPrice float64
	BonusQty  int
	Offer     *models.Offer // offer applied, nil if none matched
}

// PriceLine applies the first matching offer to a requested line. Offers
// targeting the drug take precedence over store-wide discount/bonus offers;
// within each group the caller's slice order decides, and the catalog hands
// offers out ordered by start date then id, so the earliest offer wins.
func PriceLine(drug *models.Drug, quantity int, offers []models.Offer) LineTerms {
	terms := LineTerms{UnitPrice: drug.Price}

	offer := match(drug.ID, offers)
	if offer == nil {
		return terms
	}

	switch offer.Kind {
	case models.OfferDiscount:
		pct := offer.DiscountPercentage
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		terms.UnitPrice = drug.Price * (1 - pct/100)
		terms.Offer = offer
	case models.OfferBonus:
		// a zero base would divide by zero; treat it as no bonus
		if offer.BonusBase > 0 && offer.BonusQuantity > 0 {
			terms.BonusQty = quantity / offer.BonusBase * offer.BonusQuantity
			terms.Offer = offer
		}
	}

	return terms
}

func match(drugID uint, offers []models.Offer) *models.Offer {
	for i := range offers {
		o := &offers[i]
		if o.DrugID != nil && *o.DrugID == drugID {
			return o
		}
	}
	for i := range offers {
		o := &offers[i]
		if o.DrugID == nil && (o.Kind == models.OfferDiscount || o.Kind == models.OfferBonus) {
			return o
		}
	}
	return nil
}

// FreeDelivery reports whether any active general offer waives the delivery
// fee for the given pre-bonus subtotal. A subtotal exactly at the threshold
// qualifies.
func FreeDelivery(subtotal float64, offers []models.Offer) bool {
	for i := range offers {
		o := &offers[i]
		if o.FreeDelivery && subtotal >= o.MinOrderValue {
			return true
		}
	}
	return false
}
