package orders

import (
	"errors"

	"github.com/alaazayood/viatica-backend/internal/models"
)

var (
	ErrNotFound     = errors.New("order not found")
	ErrForbidden    = errors.New("operation not allowed for this role")
	ErrInvalidState = errors.New("invalid status transition")
	ErrValidation   = errors.New("invalid input")
)

// statusByRole: which target statuses each role may request.
var statusByRole = map[models.UserRole]map[models.OrderStatus]bool{
	models.RoleAdmin: {
		models.OrderPending: true, models.OrderConfirmed: true, models.OrderAssigned: true,
		models.OrderOutForDelivery: true, models.OrderDelivered: true, models.OrderCancelled: true,
	},
	models.RoleWarehouse: {
		models.OrderPending: true, models.OrderConfirmed: true, models.OrderAssigned: true,
		models.OrderOutForDelivery: true, models.OrderDelivered: true, models.OrderCancelled: true,
	},
	models.RoleDriver: {
		models.OrderOutForDelivery: true, models.OrderDelivered: true,
	},
	// pharmacists may not change status at all
}

// ValidateTransition is the pure decision function for the order state
// machine. Driver ownership (the driver must be the order's assigned driver)
// is checked by the caller, which knows both identities.
func ValidateTransition(role models.UserRole, from, to models.OrderStatus, hasDriver bool) error {
	if !to.Valid() {
		return ErrValidation
	}

	allowed, ok := statusByRole[role]
	if !ok || !allowed[to] {
		return ErrForbidden
	}

	// terminal states are one-way: delivered cannot be re-applied, which
	// keeps reconciliation from running twice for the same order
	if from.Terminal() {
		return ErrInvalidState
	}

	// a driver must be assigned strictly before these statuses are reachable
	if (to == models.OrderAssigned || to == models.OrderOutForDelivery) && !hasDriver {
		return ErrInvalidState
	}

	return nil
}

// statusNotification returns the title and pharmacist-facing message for a
// successful transition.
func statusNotification(ref string, status models.OrderStatus) (string, string) {
	title := "Order status update"
	short := shortRef(ref)

	switch status {
	case models.OrderConfirmed:
		return title, "Your order #" + short + " has been confirmed and is being prepared."
	case models.OrderAssigned:
		return title, "A driver has been assigned to your order #" + short + "."
	case models.OrderOutForDelivery:
		return title, "Your order #" + short + " is on its way."
	case models.OrderDelivered:
		return title, "Your order #" + short + " has been delivered. Thank you!"
	case models.OrderCancelled:
		return title, "Your order #" + short + " has been cancelled. Please contact support."
	default:
		return title, "Your order #" + short + " is now: " + string(status)
	}
}

func shortRef(ref string) string {
	if len(ref) > 6 {
		return ref[len(ref)-6:]
	}
	return ref
}
