// Package ledgers exposes the append-only financial ledger between
// pharmacists and warehouses. Debt entries are written by the
// reconciliation engine; payments are recorded here.
package ledgers

import (
	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/ledger/statement — pharmacists and warehouses see their own
// side; admin may filter by pharmacist_id/warehouse_id.
func StatementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		q := database.DB.Model(&models.LedgerEntry{}).
			Preload("Pharmacist").
			Preload("Warehouse")

		switch role {
		case models.RolePharmacist:
			q = q.Where("pharmacist_id = ?", userID)
		case models.RoleWarehouse:
			q = q.Where("warehouse_id = ?", userID)
		case models.RoleAdmin:
			if pid := c.QueryInt("pharmacist_id"); pid > 0 {
				q = q.Where("pharmacist_id = ?", pid)
			}
			if wid := c.QueryInt("warehouse_id"); wid > 0 {
				q = q.Where("warehouse_id = ?", wid)
			}
		default:
			return fiber.NewError(fiber.StatusForbidden, "you are not allowed to view the ledger")
		}

		var entries []models.LedgerEntry
		if err := q.Order("created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot load statement")
		}

		return c.JSON(fiber.Map{"results": len(entries), "entries": entries})
	}
}

type paymentRequest struct {
	PharmacistID uint    `json:"pharmacist_id"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
}

// POST /api/ledger/payments — a warehouse records a payment received from a
// pharmacist; admin must additionally name the warehouse.
func CreatePaymentHandler() fiber.Handler {
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

		var body paymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.PharmacistID == 0 || body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "pharmacist_id and a positive amount are required")
		}

		var pharmacist models.User
		if err := database.DB.Where("id = ? AND role = ?", body.PharmacistID, models.RolePharmacist).First(&pharmacist).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "pharmacist not found")
		}

		entry := models.LedgerEntry{
			PharmacistID: body.PharmacistID,
			WarehouseID:  warehouseID,
			Type:         models.LedgerPayment,
			Amount:       body.Amount,
			Description:  body.Description,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot record payment")
		}

		return c.Status(fiber.StatusCreated).JSON(entry)
	}
}

// GET /api/ledger/balance?pharmacist_id=&warehouse_id=
// Outstanding debt = sum(debt) - sum(payment) for the pair.
func BalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		var pharmacistID, warehouseID uint
		switch role {
		case models.RolePharmacist:
			pharmacistID = userID
			warehouseID = uint(c.QueryInt("warehouse_id"))
		case models.RoleWarehouse:
			warehouseID = userID
			pharmacistID = uint(c.QueryInt("pharmacist_id"))
		case models.RoleAdmin:
			pharmacistID = uint(c.QueryInt("pharmacist_id"))
			warehouseID = uint(c.QueryInt("warehouse_id"))
		default:
			return fiber.NewError(fiber.StatusForbidden, "you are not allowed to view the ledger")
		}
		if pharmacistID == 0 || warehouseID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "pharmacist_id and warehouse_id must be known")
		}

		type sums struct {
			Debt    float64
			Payment float64
		}
		var s sums
		err = database.DB.Model(&models.LedgerEntry{}).
			Select(`
				COALESCE(SUM(CASE WHEN type = 'debt' THEN amount ELSE 0 END), 0) AS debt,
				COALESCE(SUM(CASE WHEN type = 'payment' THEN amount ELSE 0 END), 0) AS payment`).
			Where("pharmacist_id = ? AND warehouse_id = ?", pharmacistID, warehouseID).
			Scan(&s).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot compute balance")
		}

		return c.JSON(fiber.Map{
			"pharmacist_id": pharmacistID,
			"warehouse_id":  warehouseID,
			"total_debt":    s.Debt,
			"total_paid":    s.Payment,
			"outstanding":   s.Debt - s.Payment,
		})
	}
}
