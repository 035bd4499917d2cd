package reconcile

import (
	"context"

	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepo {
	return &gormStockRepo{db: db}
}

// AddQuantity relies on the (pharmacist, drug) unique index: insert, and on
// conflict fold the quantity into the existing row in one statement.
func (r *gormStockRepo) AddQuantity(ctx context.Context, pharmacistID, drugID uint, qty int) error {
	record := models.PharmacistStock{
		PharmacistID: pharmacistID,
		DrugID:       drugID,
		Quantity:     qty,
	}
	return database.FromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pharmacist_id"}, {Name: "drug_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("pharmacist_stocks.quantity + ?", qty),
			}),
		}).
		Create(&record).Error
}

type gormLedgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepo {
	return &gormLedgerRepo{db: db}
}

func (r *gormLedgerRepo) Append(ctx context.Context, entry *models.LedgerEntry) error {
	return database.FromContext(ctx, r.db).Create(entry).Error
}
