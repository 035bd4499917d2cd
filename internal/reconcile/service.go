// Package reconcile synchronizes pharmacist stock and the debt ledger once
// an order reaches delivered. Both writes are best effort: the triggering
// status transition has already been committed, so failures here are logged
// by the caller and never propagated to the client.
package reconcile

import (
	"context"
	"fmt"

	"github.com/alaazayood/viatica-backend/internal/models"

	"go.uber.org/zap"
)

// StockRepo upserts pharmacist-owned stock. AddQuantity must be atomic per
// (pharmacist, drug): create the record with qty when absent, increment it
// otherwise.
type StockRepo interface {
	AddQuantity(ctx context.Context, pharmacistID, drugID uint, qty int) error
}

// LedgerRepo appends entries. The ledger is append-only; there is no update
// or delete.
type LedgerRepo interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
}

type Service struct {
	stocks StockRepo
	ledger LedgerRepo
	log    *zap.SugaredLogger
}

func NewService(stocks StockRepo, ledger LedgerRepo, log *zap.SugaredLogger) *Service {
	return &Service{stocks: stocks, ledger: ledger, log: log}
}

// OrderDelivered moves every line's quantity (bonus lines included) into the
// pharmacist's stock and books one debt entry for the order total. A stock
// upsert failure for one line does not stop the remaining lines.
func (s *Service) OrderDelivered(ctx context.Context, order *models.Order) error {
	var firstErr error

	for _, line := range order.Lines {
		if err := s.stocks.AddQuantity(ctx, order.PharmacistID, line.DrugID, line.Quantity); err != nil {
			s.log.Errorw("pharmacist stock sync failed",
				"order", order.ID, "drug", line.DrugID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	var total float64
	for _, line := range order.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}

	entry := &models.LedgerEntry{
		PharmacistID: order.PharmacistID,
		WarehouseID:  order.WarehouseID,
		OrderID:      &order.ID,
		Type:         models.LedgerDebt,
		Amount:       total,
		Description:  fmt.Sprintf("Invoice for order #%s", shortRef(order.Reference)),
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.log.Errorw("ledger debt entry failed", "order", order.ID, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func shortRef(ref string) string {
	if len(ref) > 6 {
		return ref[len(ref)-6:]
	}
	return ref
}
