package reconcile

import (
	"context"
	"testing"

	"github.com/alaazayood/viatica-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockKey struct {
	pharmacist uint
	drug       uint
}

type fakeStockRepo struct {
	quantities map[stockKey]int
	err        error
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{quantities: make(map[stockKey]int)}
}

func (r *fakeStockRepo) AddQuantity(ctx context.Context, pharmacistID, drugID uint, qty int) error {
	if r.err != nil {
		return r.err
	}
	r.quantities[stockKey{pharmacistID, drugID}] += qty
	return nil
}

type fakeLedgerRepo struct {
	entries []*models.LedgerEntry
	err     error
}

func (r *fakeLedgerRepo) Append(ctx context.Context, entry *models.LedgerEntry) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func deliveredOrder() *models.Order {
	orderID := uint(42)
	return &models.Order{
		ID:           orderID,
		Reference:    "6b86b273-ff34-4ce1-9d4b-ab5801a7d402",
		PharmacistID: 1,
		WarehouseID:  2,
		Status:       models.OrderDelivered,
		Lines: []models.OrderLine{
			{DrugID: 10, Quantity: 3, UnitPrice: 8000},
			{DrugID: 11, Quantity: 5, UnitPrice: 2000},
			{DrugID: 10, Quantity: 2, UnitPrice: 0, IsBonus: true},
		},
	}
}

func TestOrderDelivered(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{}
	svc := NewService(stocks, ledger, zap.NewNop().Sugar())

	order := deliveredOrder()
	require.NoError(t, svc.OrderDelivered(context.Background(), order))

	// bonus lines count towards stock: 3 + 2 of drug 10, 5 of drug 11
	assert.Equal(t, 5, stocks.quantities[stockKey{1, 10}])
	assert.Equal(t, 5, stocks.quantities[stockKey{1, 11}])

	// debt = 3*8000 + 5*2000, bonus lines are free
	require.Len(t, ledger.entries, 1)
	entry := ledger.entries[0]
	assert.Equal(t, models.LedgerDebt, entry.Type)
	assert.Equal(t, 34000.0, entry.Amount)
	assert.Equal(t, uint(1), entry.PharmacistID)
	assert.Equal(t, uint(2), entry.WarehouseID)
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, order.ID, *entry.OrderID)
}

func TestOrderDeliveredStockFailureStillBooksDebt(t *testing.T) {
	stocks := newFakeStockRepo()
	stocks.err = assert.AnError
	ledger := &fakeLedgerRepo{}
	svc := NewService(stocks, ledger, zap.NewNop().Sugar())

	err := svc.OrderDelivered(context.Background(), deliveredOrder())
	assert.ErrorIs(t, err, assert.AnError)

	// the ledger entry is still appended; both steps are independent
	assert.Len(t, ledger.entries, 1)
}

func TestOrderDeliveredLedgerFailure(t *testing.T) {
	stocks := newFakeStockRepo()
	ledger := &fakeLedgerRepo{err: assert.AnError}
	svc := NewService(stocks, ledger, zap.NewNop().Sugar())

	err := svc.OrderDelivered(context.Background(), deliveredOrder())
	assert.ErrorIs(t, err, assert.AnError)

	// stock sync already happened
	assert.Equal(t, 5, stocks.quantities[stockKey{1, 10}])
}
