package catalog

import (
	"time"

	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DrugRequest struct {
	Name         string  `json:"name"`
	GenericName  string  `json:"generic_name"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ExpiryDate   string  `json:"expiry_date"` // YYYY-MM-DD
	BatchNumber  string  `json:"batch_number"`
	Manufacturer string  `json:"manufacturer"`
	Dosage       string  `json:"dosage"`
	DosageForm   string  `json:"dosage_form"`
}

func (r *DrugRequest) validate() error {
	if r.Name == "" || r.GenericName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and generic_name are required")
	}
	if r.Quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
	}
	if r.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}
	return nil
}

// POST /api/drugs
func CreateDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		var body DrugRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		expiry, err := time.Parse("2006-01-02", body.ExpiryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}

		drug := models.Drug{
			Name:         body.Name,
			GenericName:  body.GenericName,
			Category:     body.Category,
			WarehouseID:  warehouseID,
			Quantity:     body.Quantity,
			Price:        body.Price,
			ExpiryDate:   expiry,
			BatchNumber:  body.BatchNumber,
			Manufacturer: body.Manufacturer,
			Dosage:       body.Dosage,
			DosageForm:   body.DosageForm,
		}

		if err := database.DB.Create(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "cannot create drug, name may already exist in this warehouse")
		}

		return c.Status(fiber.StatusCreated).JSON(drug)
	}
}

// GET /api/drugs?warehouse_id=&category=
func ListDrugsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Drug{}).Preload("Warehouse")

		if wid := c.QueryInt("warehouse_id"); wid > 0 {
			q = q.Where("warehouse_id = ?", wid)
		}
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}

		var drugs []models.Drug
		if err := q.Order("name").Find(&drugs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot list drugs")
		}

		return c.JSON(fiber.Map{"results": len(drugs), "drugs": drugs})
	}
}

// GET /api/drugs/:id
func GetDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid drug id")
		}

		var drug models.Drug
		if err := database.DB.Preload("Warehouse").First(&drug, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "drug not found")
		}

		return c.JSON(drug)
	}
}

// PUT /api/drugs/:id — warehouses may only touch their own drugs. Quantity
// is deliberately not updatable here; stock moves only through orders.
func UpdateDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid drug id")
		}

		var body DrugRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := body.validate(); err != nil {
			return err
		}

		q := database.DB.Where("id = ?", id)
		if role == models.RoleWarehouse {
			q = q.Where("warehouse_id = ?", warehouseID)
		}

		var drug models.Drug
		if err := q.First(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "drug not found")
		}

		drug.Name = body.Name
		drug.GenericName = body.GenericName
		drug.Category = body.Category
		drug.Price = body.Price
		drug.BatchNumber = body.BatchNumber
		drug.Manufacturer = body.Manufacturer
		drug.Dosage = body.Dosage
		drug.DosageForm = body.DosageForm
		if body.ExpiryDate != "" {
			expiry, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			}
			drug.ExpiryDate = expiry
		}

		if err := database.DB.Save(&drug).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot update drug")
		}

		return c.JSON(drug)
	}
}

// DELETE /api/drugs/:id
func DeleteDrugHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, role, err := auth.Caller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid drug id")
		}

		q := database.DB.Where("id = ?", id)
		if role == models.RoleWarehouse {
			q = q.Where("warehouse_id = ?", warehouseID)
		}

		res := q.Delete(&models.Drug{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot delete drug")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "drug not found")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
