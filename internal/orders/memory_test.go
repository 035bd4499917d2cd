package orders

import (
	"context"
	"sync"
	"time"

	"github.com/alaazayood/viatica-backend/internal/catalog"
	"github.com/alaazayood/viatica-backend/internal/models"
)

// In-memory doubles honoring the same contracts as the GORM implementations,
// so the engine can be exercised without Postgres. The conditional decrement
// stays a single indivisible check-and-write under the store mutex.

type journalKey struct{}

type txJournal struct {
	mu   sync.Mutex
	undo []func()
}

func (j *txJournal) add(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func (j *txJournal) rollback() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type memTxManager struct{}

func (memTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	j := &txJournal{}
	err := fn(context.WithValue(ctx, journalKey{}, j))
	if err != nil {
		j.rollback()
	}
	return err
}

func journalFrom(ctx context.Context) *txJournal {
	j, _ := ctx.Value(journalKey{}).(*txJournal)
	return j
}

type memDrugStore struct {
	mu    sync.Mutex
	drugs map[uint]*models.Drug
}

func newMemDrugStore(drugs ...*models.Drug) *memDrugStore {
	s := &memDrugStore{drugs: make(map[uint]*models.Drug)}
	for _, d := range drugs {
		s.drugs[d.ID] = d
	}
	return s
}

func (s *memDrugStore) FindByID(ctx context.Context, drugID uint) (*models.Drug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drugs[drugID]
	if !ok {
		return nil, catalog.ErrDrugNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *memDrugStore) ConditionalDecrement(ctx context.Context, drugID, warehouseID uint, amount int) error {
	if amount <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drugs[drugID]
	if !ok || d.WarehouseID != warehouseID || d.Quantity < amount {
		return catalog.ErrInsufficientStock
	}
	d.Quantity -= amount

	if j := journalFrom(ctx); j != nil {
		j.add(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			d.Quantity += amount
		})
	}
	return nil
}

func (s *memDrugStore) Increment(ctx context.Context, drugID uint, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drugs[drugID]
	if !ok {
		return catalog.ErrDrugNotFound
	}
	d.Quantity += amount

	if j := journalFrom(ctx); j != nil {
		j.add(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			d.Quantity -= amount
		})
	}
	return nil
}

func (s *memDrugStore) quantity(drugID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drugs[drugID].Quantity
}

type memOfferCatalog struct {
	offers []models.Offer
}

func (c *memOfferCatalog) ActiveOffers(ctx context.Context, warehouseID uint, asOf time.Time) ([]models.Offer, error) {
	var active []models.Offer
	for _, o := range c.offers {
		if o.WarehouseID == warehouseID && o.ActiveAt(asOf) {
			active = append(active, o)
		}
	}
	return active, nil
}

type memRepository struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]*models.Order
	users  map[uint]*models.User
}

func newMemRepository(users ...*models.User) *memRepository {
	r := &memRepository{
		nextID: 1,
		orders: make(map[uint]*models.Order),
		users:  make(map[uint]*models.User),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order.ID = r.nextID
	r.nextID++
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	cp := cloneOrder(order)
	r.orders[order.ID] = cp
	return nil
}

func (r *memRepository) Save(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return ErrNotFound
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memRepository) TransitionStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrInvalidState
	}
	o.Status = to

	if j := journalFrom(ctx); j != nil {
		j.add(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			o.Status = from
		})
	}
	return nil
}

func (r *memRepository) FindScoped(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || !visible(o, actor) {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *memRepository) ListScoped(ctx context.Context, actor Actor, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if visible(o, actor) {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRepository) FindUser(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepository) AdminIDs(ctx context.Context) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, u := range r.users {
		if u.Role == models.RoleAdmin {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func visible(o *models.Order, actor Actor) bool {
	switch actor.Role {
	case models.RolePharmacist:
		return o.PharmacistID == actor.ID
	case models.RoleWarehouse:
		return o.WarehouseID == actor.ID
	case models.RoleDriver:
		return o.DriverID != nil && *o.DriverID == actor.ID
	}
	return true
}

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Lines = make([]models.OrderLine, len(o.Lines))
	copy(cp.Lines, o.Lines)
	if o.DriverID != nil {
		id := *o.DriverID
		cp.DriverID = &id
	}
	return &cp
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []struct {
		RecipientID uint
		Title       string
		Message     string
	}
}

func (n *fakeNotifier) Notify(recipientID uint, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, struct {
		RecipientID uint
		Title       string
		Message     string
	}{recipientID, title, message})
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type fakeReconciler struct {
	mu     sync.Mutex
	orders []*models.Order
	err    error
}

func (r *fakeReconciler) OrderDelivered(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
	return r.err
}

func (r *fakeReconciler) deliveredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
