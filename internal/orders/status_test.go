package orders

import (
	"testing"

	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name      string
		role      models.UserRole
		from, to  models.OrderStatus
		hasDriver bool
		wantErr   error
	}{
		{"warehouse confirms", models.RoleWarehouse, models.OrderPending, models.OrderConfirmed, false, nil},
		{"admin cancels", models.RoleAdmin, models.OrderConfirmed, models.OrderCancelled, false, nil},
		{"warehouse assigns with driver", models.RoleWarehouse, models.OrderConfirmed, models.OrderAssigned, true, nil},
		{"assigned without driver", models.RoleAdmin, models.OrderConfirmed, models.OrderAssigned, false, ErrInvalidState},
		{"out_for_delivery without driver", models.RoleWarehouse, models.OrderAssigned, models.OrderOutForDelivery, false, ErrInvalidState},
		{"driver delivers", models.RoleDriver, models.OrderOutForDelivery, models.OrderDelivered, true, nil},
		{"driver starts delivery", models.RoleDriver, models.OrderAssigned, models.OrderOutForDelivery, true, nil},
		{"driver cannot confirm", models.RoleDriver, models.OrderPending, models.OrderConfirmed, true, ErrForbidden},
		{"driver cannot cancel", models.RoleDriver, models.OrderAssigned, models.OrderCancelled, true, ErrForbidden},
		{"pharmacist cannot change status", models.RolePharmacist, models.OrderPending, models.OrderCancelled, false, ErrForbidden},
		{"delivered is terminal", models.RoleAdmin, models.OrderDelivered, models.OrderPending, true, ErrInvalidState},
		{"delivered cannot be re-delivered", models.RoleWarehouse, models.OrderDelivered, models.OrderDelivered, true, ErrInvalidState},
		{"cancelled is terminal", models.RoleAdmin, models.OrderCancelled, models.OrderConfirmed, false, ErrInvalidState},
		{"unknown status", models.RoleAdmin, models.OrderPending, models.OrderStatus("shipped"), false, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.role, tt.from, tt.to, tt.hasDriver)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
