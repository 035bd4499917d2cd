package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alaazayood/viatica-backend/internal/catalog"
	"github.com/alaazayood/viatica-backend/internal/database"
	"github.com/alaazayood/viatica-backend/internal/models"
	"github.com/alaazayood/viatica-backend/internal/offers"
	"github.com/alaazayood/viatica-backend/internal/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier is the fire-and-forget notification sink. Implementations log
// their own failures; callers never wait on delivery.
type Notifier interface {
	Notify(recipientID uint, title, message string)
}

// Reconciler runs the post-delivery synchronization of pharmacist stock and
// the debt ledger.
type Reconciler interface {
	OrderDelivered(ctx context.Context, order *models.Order) error
}

type OrderItem struct {
	DrugID   uint `json:"drug_id"`
	Quantity int  `json:"quantity"`
}

type CreateOrderRequest struct {
	WarehouseID     uint        `json:"warehouse_id"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"delivery_address"`
}

type Service struct {
	drugs       catalog.Store
	offers      offers.Catalog
	repo        Repository
	txm         database.TxManager
	notifier    Notifier
	reconciler  Reconciler
	log         *zap.SugaredLogger
	deliveryFee float64
}

func NewService(
	drugs catalog.Store,
	offerCatalog offers.Catalog,
	repo Repository,
	txm database.TxManager,
	notifier Notifier,
	reconciler Reconciler,
	log *zap.SugaredLogger,
	deliveryFee float64,
) *Service {
	return &Service{
		drugs:       drugs,
		offers:      offerCatalog,
		repo:        repo,
		txm:         txm,
		notifier:    notifier,
		reconciler:  reconciler,
		log:         log,
		deliveryFee: deliveryFee,
	}
}

// CreateOrder builds and persists an order for a pharmacist. Every line is
// priced against the warehouse's active offers and its stock reserved with a
// conditional decrement. The whole loop runs in one storage transaction, so
// a failing line releases the reservations of the lines before it.
func (s *Service) CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (*models.Order, error) {
	if actor.Role != models.RolePharmacist {
		return nil, fmt.Errorf("%w: only pharmacists create orders", ErrForbidden)
	}
	if req.WarehouseID == 0 || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: warehouse_id and items are required", ErrValidation)
	}
	for _, item := range req.Items {
		if item.DrugID == 0 || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: every item needs a drug_id and a positive quantity", ErrValidation)
		}
	}

	warehouse, err := s.repo.FindUser(ctx, req.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse", ErrNotFound)
	}
	if warehouse.Role != models.RoleWarehouse {
		return nil, fmt.Errorf("%w: target user is not a warehouse", ErrValidation)
	}

	now := time.Now()
	var order *models.Order

	err = s.txm.WithTransaction(ctx, func(ctx context.Context) error {
		activeOffers, err := s.offers.ActiveOffers(ctx, req.WarehouseID, now)
		if err != nil {
			return err
		}

		var lines []models.OrderLine
		var subtotal float64

		for _, item := range req.Items {
			drug, err := s.drugs.FindByID(ctx, item.DrugID)
			if err != nil {
				if errors.Is(err, catalog.ErrDrugNotFound) {
					return fmt.Errorf("%w: drug %d", ErrNotFound, item.DrugID)
				}
				return err
			}
			if drug.WarehouseID != req.WarehouseID {
				return fmt.Errorf("%w: drug %d", ErrNotFound, item.DrugID)
			}

			terms := pricing.PriceLine(drug, item.Quantity, activeOffers)
			totalDeduct := item.Quantity + terms.BonusQty

			if err := s.drugs.ConditionalDecrement(ctx, drug.ID, req.WarehouseID, totalDeduct); err != nil {
				if errors.Is(err, catalog.ErrInsufficientStock) {
					return fmt.Errorf("%w: %s", catalog.ErrInsufficientStock, drug.Name)
				}
				return err
			}

			var offerID *uint
			if terms.Offer != nil {
				offerID = &terms.Offer.ID
			}

			lines = append(lines, models.OrderLine{
				DrugID:         drug.ID,
				Quantity:       item.Quantity,
				UnitPrice:      terms.UnitPrice,
				AppliedOfferID: offerID,
			})
			if terms.BonusQty > 0 {
				lines = append(lines, models.OrderLine{
					DrugID:         drug.ID,
					Quantity:       terms.BonusQty,
					UnitPrice:      0,
					IsBonus:        true,
					AppliedOfferID: offerID,
				})
			}

			// bonus lines are free and do not count towards free delivery
			subtotal += terms.UnitPrice * float64(item.Quantity)
		}

		fee := s.deliveryFee
		free := pricing.FreeDelivery(subtotal, activeOffers)
		if free {
			fee = 0
		}

		order = &models.Order{
			Reference:       uuid.NewString(),
			PharmacistID:    actor.ID,
			WarehouseID:     req.WarehouseID,
			Lines:           lines,
			Status:          models.OrderPending,
			DeliveryAddress: req.DeliveryAddress,
			DeliveryFee:     fee,
			IsFreeDelivery:  free,
		}
		return s.repo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	// the order is committed; admin notification is best effort
	s.notifyAdmins(ctx, actor.ID, order)

	return order, nil
}

func (s *Service) notifyAdmins(ctx context.Context, pharmacistID uint, order *models.Order) {
	name := fmt.Sprintf("pharmacist %d", pharmacistID)
	if u, err := s.repo.FindUser(ctx, pharmacistID); err == nil {
		name = u.Name
	}

	adminIDs, err := s.repo.AdminIDs(ctx)
	if err != nil {
		s.log.Errorw("cannot resolve admin recipients", "order", order.ID, "error", err)
		return
	}
	for _, id := range adminIDs {
		s.notifier.Notify(id, "New purchase order",
			fmt.Sprintf("%s placed a new purchase order #%s.", name, shortRef(order.Reference)))
	}
}

// UpdateStatus drives the order state machine. The edge is taken with a
// conditional update on the prior status, so two racing requests cannot both
// reach delivered and reconcile twice. Cancelling releases the stock the
// order had reserved. Reaching delivered triggers reconciliation;
// reconciliation failures are logged and never undo the transition or fail
// the request.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, orderID uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.repo.FindScoped(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(actor.Role, order.Status, status, order.DriverID != nil); err != nil {
		return nil, err
	}
	if actor.Role == models.RoleDriver && (order.DriverID == nil || *order.DriverID != actor.ID) {
		return nil, fmt.Errorf("%w: order is not assigned to this driver", ErrForbidden)
	}

	err = s.txm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.TransitionStatus(ctx, order.ID, order.Status, status); err != nil {
			return err
		}
		if status == models.OrderCancelled {
			return s.restock(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = status

	title, message := statusNotification(order.Reference, status)
	s.notifier.Notify(order.PharmacistID, title, message)

	if status == models.OrderDelivered {
		if err := s.reconciler.OrderDelivered(ctx, order); err != nil {
			s.log.Errorw("order reconciliation failed",
				"order", order.ID, "pharmacist", order.PharmacistID, "error", err)
		}
	}

	return order, nil
}

// restock returns every reserved unit, bonus lines included, to the
// warehouse when an order is cancelled.
func (s *Service) restock(ctx context.Context, order *models.Order) error {
	for _, line := range order.Lines {
		if err := s.drugs.Increment(ctx, line.DrugID, line.Quantity); err != nil {
			return fmt.Errorf("restock drug %d: %w", line.DrugID, err)
		}
	}
	return nil
}

// AssignDriver sets the order's driver and forces status=assigned in one
// update. Warehouse callers may only assign drivers on their own orders.
func (s *Service) AssignDriver(ctx context.Context, actor Actor, orderID, driverID uint) (*models.Order, error) {
	if actor.Role != models.RoleWarehouse && actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	driver, err := s.repo.FindUser(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("%w: driver", ErrNotFound)
	}
	if driver.Role != models.RoleDriver {
		return nil, fmt.Errorf("%w: user %d is not a driver", ErrValidation, driverID)
	}

	order, err := s.repo.FindScoped(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, ErrInvalidState
	}

	order.DriverID = &driverID
	order.Status = models.OrderAssigned
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	title, message := statusNotification(order.Reference, models.OrderAssigned)
	s.notifier.Notify(order.PharmacistID, title, message)

	return order, nil
}

func (s *Service) Get(ctx context.Context, actor Actor, orderID uint) (*models.Order, error) {
	return s.repo.FindScoped(ctx, actor, orderID)
}

func (s *Service) List(ctx context.Context, actor Actor, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.ListScoped(ctx, actor, page, limit)
}
