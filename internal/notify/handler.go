package notify

import (
	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications — newest first, capped at 50.
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		var notifications []models.Notification
		if err := database.DB.
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(50).
			Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot list notifications")
		}

		return c.JSON(fiber.Map{"results": len(notifications), "notifications": notifications})
	}
}

// PATCH /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
		}

		res := database.DB.
			Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("read", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot update notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}

		return c.JSON(fiber.Map{"message": "notification marked as read"})
	}
}

// PATCH /api/notifications/mark-all-read
func MarkAllReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := auth.Caller(c)
		if err != nil {
			return err
		}

		if err := database.DB.
			Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			Update("read", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "cannot update notifications")
		}

		return c.JSON(fiber.Map{"message": "all notifications marked as read"})
	}
}
