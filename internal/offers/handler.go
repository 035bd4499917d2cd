package offers

import (
	"time"

	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OfferRequest struct {
	Title              string           `json:"title"`
	Subtitle           string           `json:"subtitle"`
	Kind               models.OfferKind `json:"kind"`
	DrugID             *uint            `json:"drug_id"`
	StartDate          string           `json:"start_date"` // YYYY-MM-DD, defaults to today
	EndDate            string           `json:"end_date"`
	DiscountPercentage float64          `json:"discount_percentage"`
	BonusBase          int              `json:"bonus_base"`
	BonusQuantity      int              `json:"bonus_quantity"`
	FreeDelivery       bool             `json:"free_delivery"`
	MinOrderValue      float64          `json:"min_order_value"`
}

// POST /api/offers — warehouse creates offers for itself; admin must name a
// warehouse via ?warehouse_id.
func CreateOfferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		warehouseID := userID
		if role == models.RoleAdmin {
			wid := c.QueryInt("warehouse_id")
			if wid <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "warehouse_id is required for admin")
			}
			warehouseID = uint(wid)
		}

		var body OfferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}
		if body.Kind == "" {
			body.Kind = models.OfferGeneral
		}
		if !body.Kind.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "kind must be discount, bonus or general")
		}

		switch body.Kind {
		case models.OfferDiscount:
			if body.DiscountPercentage < 0 || body.DiscountPercentage > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "discount_percentage must be between 0 and 100")
			}
		case models.OfferBonus:
			if body.BonusBase <= 0 || body.BonusQuantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "bonus_base and bonus_quantity must be positive")
			}
		case models.OfferGeneral:
			if body.FreeDelivery && body.MinOrderValue < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "min_order_value must not be negative")
			}
		}

		start := time.Now()
		if body.StartDate != "" {
			start, err = time.Parse("2006-01-02", body.StartDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
			}
		}
		if body.EndDate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "end_date is required")
		}
		end, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		// validity windows are inclusive on both ends
		end = end.Add(24*time.Hour - time.Second)
		if end.Before(start) {
			return fiber.NewError(fiber.StatusBadRequest, "end_date must not be before start_date")
		}

		if body.DrugID != nil {
			var drug models.Drug
			if err := database.DB.Where("id = ? AND warehouse_id = ?", *body.DrugID, warehouseID).First(&drug).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "drug not found in this warehouse")
			}
		}

		offer := models.Offer{
			Title:              body.Title,
			Subtitle:           body.Subtitle,
			Kind:               body.Kind,
			DrugID:             body.DrugID,
			WarehouseID:        warehouseID,
			StartDate:          start,
			EndDate:            end,
			IsActive:           true,
			DiscountPercentage: body.DiscountPercentage,
			BonusBase:          body.BonusBase,
			BonusQuantity:      body.BonusQuantity,
			FreeDelivery:       body.FreeDelivery,
			MinOrderValue:      body.MinOrderValue,
		}

		if err := database.DB.Create(&offer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot create offer")
		}

		return c.Status(fiber.StatusCreated).JSON(offer)
	}
}

// GET /api/offers — pharmacists/drivers see currently active offers only;
// warehouse sees all of its own offers, admin sees everything.
func ListOffersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.Offer{}).Preload("Drug")

		switch role {
		case models.RoleAdmin:
			// no filter
		case models.RoleWarehouse:
			q = q.Where("warehouse_id = ?", userID)
		default:
			now := time.Now()
			q = q.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now)
			if wid := c.QueryInt("warehouse_id"); wid > 0 {
				q = q.Where("warehouse_id = ?", wid)
			}
		}

		var offers []models.Offer
		if err := q.Order("start_date, id").Find(&offers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot list offers")
		}

		return c.JSON(fiber.Map{"results": len(offers), "offers": offers})
	}
}

// DELETE /api/offers/:id
func DeleteOfferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid offer id")
		}

		q := database.DB.Where("id = ?", id)
		if role == models.RoleWarehouse {
			q = q.Where("warehouse_id = ?", userID)
		}

		res := q.Delete(&models.Offer{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot delete offer")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "offer not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
