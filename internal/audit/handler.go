package audit

import (
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?page=&limit= (admin only, newest first)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var total int64
		if err := database.DB.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot count audit logs")
		}

		var logs []models.AuditLog
		if err := database.DB.
			Preload("User").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot list audit logs")
		}

		return c.JSON(fiber.Map{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"results": len(logs),
			"logs":    logs,
		})
	}
}
