package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const inventorySheet = "Inventory"

var exportHeaders = []string{
	"Name", "Generic Name", "Manufacturer", "Price", "Quantity",
	"Category", "Expiry Date", "Batch Number", "Dosage", "Form",
}

// GET /api/drugs/export
// Returns the warehouse's inventory as XLSX; an empty inventory yields a
// header-only template usable for the import below.
func ExportInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		var drugs []models.Drug
		if err := database.DB.Where("warehouse_id = ?", warehouseID).Order("name").Find(&drugs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot load inventory")
		}

		f := excelize.NewFile()
		defer f.Close()

		index, err := f.NewSheet(inventorySheet)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot build workbook")
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1")

		header := make([]interface{}, len(exportHeaders))
		for i, h := range exportHeaders {
			header[i] = h
		}
		if err := f.SetSheetRow(inventorySheet, "A1", &header); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot build workbook")
		}

		for i, d := range drugs {
			row := []interface{}{
				d.Name, d.GenericName, d.Manufacturer, d.Price, d.Quantity,
				d.Category, d.ExpiryDate.Format("2006-01-02"), d.BatchNumber, d.Dosage, d.DosageForm,
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(inventorySheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "cannot build workbook")
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot write workbook")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

// POST /api/drugs/import (multipart field "file")
// Creates or updates drugs by (name, warehouse). Rows that fail to parse are
// reported back with their row number; valid rows are still applied.
func ImportInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload missing")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are supported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot open uploaded file")
		}
		defer file.Close()

		wb, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cannot read workbook")
		}
		defer wb.Close()

		sheet := inventorySheet
		if idx, _ := wb.GetSheetIndex(sheet); idx < 0 {
			sheet = wb.GetSheetName(0)
		}
		rows, err := wb.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			return fiber.NewError(fiber.StatusBadRequest, "workbook has no data rows")
		}

		var created, updated int
		var rowErrors []string

		for i, row := range rows[1:] {
			rowNum := i + 2
			drug, err := parseDrugRow(row, warehouseID)
			if err != nil {
				rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
				continue
			}

			var existing models.Drug
			err = database.DB.Where("name = ? AND warehouse_id = ?", drug.Name, warehouseID).First(&existing).Error
			if err == nil {
				existing.GenericName = drug.GenericName
				existing.Manufacturer = drug.Manufacturer
				existing.Price = drug.Price
				existing.Quantity = drug.Quantity
				existing.Category = drug.Category
				existing.ExpiryDate = drug.ExpiryDate
				existing.BatchNumber = drug.BatchNumber
				existing.Dosage = drug.Dosage
				existing.DosageForm = drug.DosageForm
				if err := database.DB.Save(&existing).Error; err != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
					continue
				}
				updated++
			} else {
				if err := database.DB.Create(&drug).Error; err != nil {
					rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
					continue
				}
				created++
			}
		}

		return c.JSON(fiber.Map{
			"created": created,
			"updated": updated,
			"errors":  rowErrors,
		})
	}
}

func parseDrugRow(row []string, warehouseID uint) (models.Drug, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := get(0)
	if name == "" {
		return models.Drug{}, fmt.Errorf("name is empty")
	}
	generic := get(1)
	if generic == "" {
		return models.Drug{}, fmt.Errorf("generic name is empty")
	}

	price, err := strconv.ParseFloat(get(3), 64)
	if err != nil || price < 0 {
		return models.Drug{}, fmt.Errorf("invalid price %q", get(3))
	}
	quantity, err := strconv.Atoi(get(4))
	if err != nil || quantity < 0 {
		return models.Drug{}, fmt.Errorf("invalid quantity %q", get(4))
	}

	var expiry time.Time
	if v := get(6); v != "" {
		expiry, err = time.Parse("2006-01-02", v)
		if err != nil {
			return models.Drug{}, fmt.Errorf("invalid expiry date %q", v)
		}
	}

	return models.Drug{
		Name:         name,
		GenericName:  generic,
		Manufacturer: get(2),
		Price:        price,
		Quantity:     quantity,
		Category:     get(5),
		ExpiryDate:   expiry,
		BatchNumber:  get(7),
		Dosage:       get(8),
		DosageForm:   get(9),
		WarehouseID:  warehouseID,
	}, nil
}
