package orders

import (
	"errors"

	"github.com/alaazayood/viatica-backend/internal/auth"
	"github.com/alaazayood/viatica-backend/internal/catalog"
	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func actorFrom(c *fiber.Ctx) (Actor, error) {
	userID, role, err := auth.Caller(c)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: userID, Role: role}, nil
}

// httpError translates the service's sentinel errors into the HTTP envelope.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidState):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := svc.CreateOrder(c.Context(), actor, body)
		if err != nil {
			return httpError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "order created, available offers were applied automatically",
			"order":   order,
		})
	}
}

// GET /api/orders?page=&limit=
func ListOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 20)

		orders, total, err := svc.List(c.Context(), actor, page, limit)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(fiber.Map{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"results": len(orders),
			"orders":  orders,
		})
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		order, err := svc.Get(c.Context(), actor, uint(id))
		if err != nil {
			return httpError(err)
		}

		return c.JSON(order)
	}
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// PATCH /api/orders/:id/status
func UpdateStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		var body statusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		order, err := svc.UpdateStatus(c.Context(), actor, uint(id), body.Status)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(order)
	}
}

type assignDriverRequest struct {
	DriverID uint `json:"driver_id"`
}

// PATCH /api/orders/:id/assign-driver
func AssignDriverHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		var body assignDriverRequest
		if err := c.BodyParser(&body); err != nil || body.DriverID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "driver_id is required")
		}

		order, err := svc.AssignDriver(c.Context(), actor, uint(id), body.DriverID)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(order)
	}
}
