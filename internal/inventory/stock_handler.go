// Package inventory serves the pharmacist-owned stock that reconciliation
// fills on delivery.
package inventory

import (
	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/inventory/my-stock
func MyStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		var stock []models.PharmacistStock
		if err := database.DB.
			Preload("Drug").
			Where("pharmacist_id = ?", userID).
			Find(&stock).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot load stock")
		}

		return c.JSON(fiber.Map{"results": len(stock), "stock": stock})
	}
}

type adjustRequest struct {
	Quantity int `json:"quantity"` // new absolute quantity after a sale or count
}

// PATCH /api/inventory/:id/adjust
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid stock record id")
		}

		var body adjustRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
		}

		res := database.DB.
			Model(&models.PharmacistStock{}).
			Where("id = ? AND pharmacist_id = ?", id, userID).
			Update("quantity", body.Quantity)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot update stock")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "stock record not found")
		}

		var stock models.PharmacistStock
		if err := database.DB.Preload("Drug").First(&stock, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot load stock record")
		}

		return c.JSON(stock)
	}
}
