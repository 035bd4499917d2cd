package orders

import (
	"context"
	"errors"

	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"

	"gorm.io/gorm"
)

// Actor is the authenticated caller of an order operation.
type Actor struct {
	ID   uint
	Role models.UserRole
}

// Repository persists orders and resolves the users an order refers to.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error

	// TransitionStatus moves the order from one status to another only if it
	// still holds the expected prior status. The predicate and the write are
	// one statement, so two racing transitions cannot both take the same
	// edge; the loser gets ErrInvalidState.
	TransitionStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error

	// FindScoped loads an order visible to the actor: pharmacists see their
	// own orders, warehouses theirs, drivers the ones assigned to them,
	// admin everything.
	FindScoped(ctx context.Context, actor Actor, id uint) (*models.Order, error)
	ListScoped(ctx context.Context, actor Actor, page, limit int) ([]models.Order, int64, error)

	FindUser(ctx context.Context, id uint) (*models.User, error)
	AdminIDs(ctx context.Context) ([]uint, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func scopeFilter(q *gorm.DB, actor Actor) *gorm.DB {
	switch actor.Role {
	case models.RolePharmacist:
		return q.Where("pharmacist_id = ?", actor.ID)
	case models.RoleWarehouse:
		return q.Where("warehouse_id = ?", actor.ID)
	case models.RoleDriver:
		return q.Where("driver_id = ?", actor.ID)
	}
	return q
}

func (r *gormRepository) Create(ctx context.Context, order *models.Order) error {
	return database.FromContext(ctx, r.db).Create(order).Error
}

func (r *gormRepository) Save(ctx context.Context, order *models.Order) error {
	return database.FromContext(ctx, r.db).Save(order).Error
}

func (r *gormRepository) TransitionStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error {
	res := database.FromContext(ctx, r.db).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

func (r *gormRepository) FindScoped(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	q := database.FromContext(ctx, r.db).
		Preload("Lines").
		Preload("Lines.Drug").
		Preload("Pharmacist").
		Preload("Warehouse").
		Preload("Driver").
		Where("id = ?", id)
	q = scopeFilter(q, actor)

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) ListScoped(ctx context.Context, actor Actor, page, limit int) ([]models.Order, int64, error) {
	db := database.FromContext(ctx, r.db)

	var total int64
	countQ := scopeFilter(db.Model(&models.Order{}), actor)
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Model(&models.Order{}).
		Preload("Lines").
		Preload("Pharmacist").
		Preload("Warehouse").
		Preload("Driver").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit)
	q = scopeFilter(q, actor)

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *gormRepository) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := database.FromContext(ctx, r.db).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) AdminIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := database.FromContext(ctx, r.db).
		Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Pluck("id", &ids).Error
	return ids, err
}
