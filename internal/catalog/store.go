package catalog

import (
	"context"
	"errors"

	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDrugNotFound      = errors.New("drug not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store is the inventory side of the drug catalog. Stock is only mutated
// through the conditional operations below; callers never read-modify-write
// the quantity.
type Store interface {
	FindByID(ctx context.Context, drugID uint) (*models.Drug, error)

	// ConditionalDecrement subtracts amount from the drug's stock only if
	// the drug belongs to the warehouse and currently holds at least that
	// amount. The check and the write are a single indivisible statement:
	// two concurrent callers competing for the last units cannot both
	// succeed. Returns ErrInsufficientStock when the predicate fails.
	ConditionalDecrement(ctx context.Context, drugID, warehouseID uint, amount int) error

	// Increment adds amount back, e.g. when a cancelled order releases its
	// reservation.
	Increment(ctx context.Context, drugID uint, amount int) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByID(ctx context.Context, drugID uint) (*models.Drug, error) {
	var drug models.Drug
	err := database.FromContext(ctx, s.db).First(&drug, drugID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrugNotFound
		}
		return nil, err
	}
	return &drug, nil
}

func (s *gormStore) ConditionalDecrement(ctx context.Context, drugID, warehouseID uint, amount int) error {
	if amount <= 0 {
		return nil
	}

	res := database.FromContext(ctx, s.db).
		Model(&models.Drug{}).
		Where("id = ? AND warehouse_id = ? AND quantity >= ?", drugID, warehouseID, amount).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (s *gormStore) Increment(ctx context.Context, drugID uint, amount int) error {
	if amount <= 0 {
		return nil
	}

	res := database.FromContext(ctx, s.db).
		Model(&models.Drug{}).
		Where("id = ?", drugID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDrugNotFound
	}
	return nil
}
