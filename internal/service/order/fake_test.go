package order

import (
	"context"
	"sort"
	"time"

	"petshop-commerce/internal/domain"
	orderrepo "petshop-commerce/internal/repository/order"
)

type cartKey struct {
	account string
	product int64
}

type state struct {
	coupons map[int64]domain.UserCoupon
	cart    map[cartKey]int
	orders  map[int64]domain.Order
}

func (s state) clone() state {
	c := state{
		coupons: make(map[int64]domain.UserCoupon, len(s.coupons)),
		cart:    make(map[cartKey]int, len(s.cart)),
		orders:  make(map[int64]domain.Order, len(s.orders)),
	}
	for k, v := range s.coupons {
		c.coupons[k] = v
	}
	for k, v := range s.cart {
		c.cart[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	return c
}

// world is an in-memory stand-in for every collaborator of the order
// engine. InTx restores the mutable state when fn fails.
type world struct {
	products  map[int64]domain.Product
	addresses map[int64]domain.Address
	state

	nextOrderID   int64
	takenNumbers  map[string]bool
	failItems     error
	failCartPurge error
	clock         time.Time
}

func newWorld() *world {
	return &world{
		products:     map[int64]domain.Product{},
		addresses:    map[int64]domain.Address{},
		takenNumbers: map[string]bool{},
		state: state{
			coupons: map[int64]domain.UserCoupon{},
			cart:    map[cartKey]int{},
			orders:  map[int64]domain.Order{},
		},
		clock: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (w *world) service() *Service {
	svc := New(Deps{Orders: w, Addresses: addressBook{w}, Catalog: w, Coupons: w, Carts: w, Tx: w})
	svc.now = func() time.Time { return w.clock }
	return svc
}

func (w *world) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := w.state.clone()
	savedNumbers := make(map[string]bool, len(w.takenNumbers))
	for k, v := range w.takenNumbers {
		savedNumbers[k] = v
	}
	if err := fn(ctx); err != nil {
		w.state = saved
		w.takenNumbers = savedNumbers
		return err
	}
	return nil
}

// addressBook serves the address lookups of the world; its Get would clash
// with the order repository's.
type addressBook struct{ w *world }

func (b addressBook) Get(_ context.Context, _, accountID string, id int64) (*domain.Address, error) {
	a, ok := b.w.addresses[id]
	if !ok || a.AccountID != accountID || a.Status != domain.AddressActive {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (w *world) GetMany(_ context.Context, _ string, ids []int64) (map[int64]domain.Product, error) {
	out := map[int64]domain.Product{}
	for _, id := range ids {
		if p, ok := w.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (w *world) Redeem(_ context.Context, _, accountID string, id, total int64) (int64, error) {
	uc, ok := w.coupons[id]
	if !ok || uc.AccountID != accountID || !uc.Eligible(total, w.clock) {
		return 0, nil
	}
	uc.Status = domain.CouponUsed
	w.coupons[id] = uc
	return uc.AmountCents, nil
}

func (w *world) Attach(_ context.Context, _, _ int64) error { return nil }

func (w *world) RemoveProducts(_ context.Context, _, accountID string, ids []int64) error {
	if w.failCartPurge != nil {
		return w.failCartPurge
	}
	for _, id := range ids {
		delete(w.cart, cartKey{accountID, id})
	}
	return nil
}

func (w *world) Insert(_ context.Context, o *domain.Order) error {
	if w.takenNumbers[o.OrderNumber] {
		return domain.ErrAlreadyExists
	}
	w.takenNumbers[o.OrderNumber] = true
	w.nextOrderID++
	o.ID = w.nextOrderID
	o.CreatedAt = w.clock
	o.UpdatedAt = w.clock
	w.orders[o.ID] = *o
	return nil
}

func (w *world) InsertItems(_ context.Context, orderID int64, items []domain.OrderItem) error {
	if w.failItems != nil {
		return w.failItems
	}
	o := w.orders[orderID]
	o.Items = append([]domain.OrderItem(nil), items...)
	w.orders[orderID] = o
	return nil
}

func (w *world) order(accountID string, id int64) (*domain.Order, error) {
	o, ok := w.orders[id]
	if !ok || o.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (w *world) Get(_ context.Context, _, accountID string, id int64) (*domain.Order, error) {
	return w.order(accountID, id)
}

func (w *world) GetForUpdate(_ context.Context, _, accountID string, id int64) (*domain.Order, error) {
	return w.order(accountID, id)
}

func (w *world) SetStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	o, ok := w.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	w.orders[id] = o
	return nil
}

func (w *world) MarkPaid(_ context.Context, id int64, method string, paidAt time.Time) error {
	o, ok := w.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = domain.OrderPaid
	o.PaymentMethod = method
	o.PaymentStatus = 1
	o.PaidAt = &paidAt
	w.orders[id] = o
	return nil
}

func (w *world) List(_ context.Context, _, accountID string, f orderrepo.ListFilter) ([]domain.Order, int, error) {
	var all []domain.Order
	for _, o := range w.orders {
		if o.AccountID == accountID && (f.Status == "" || o.Status == f.Status) {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	if f.Offset >= len(all) {
		return []domain.Order{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}
