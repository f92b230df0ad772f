package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/logging"
	orderrepo "petshop-commerce/internal/repository/order"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	DefaultPaymentMethod = "wechat"

	numberAttempts = 5
)

type addressReader interface {
	Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Address, error)
}

type productReader interface {
	GetMany(ctx context.Context, projectID string, ids []int64) (map[int64]domain.Product, error)
}

type couponRedeemer interface {
	Redeem(ctx context.Context, projectID, accountID string, instrumentID, orderTotal int64) (int64, error)
	Attach(ctx context.Context, instrumentID, orderID int64) error
}

type cartPurger interface {
	RemoveProducts(ctx context.Context, projectID, accountID string, productIDs []int64) error
}

// Deps are the collaborators of the order engine. Every store-backed
// dependency must share the transaction runner's store so Create stays
// atomic.
type Deps struct {
	Orders    orderrepo.Repository
	Addresses addressReader
	Catalog   productReader
	Coupons   couponRedeemer
	Carts     cartPurger
	Tx        db.TxRunner
	Logger    *zap.Logger
}

type Service struct {
	orders    orderrepo.Repository
	addresses addressReader
	catalog   productReader
	coupons   couponRedeemer
	carts     cartPurger
	tx        db.TxRunner
	logger    *zap.Logger

	now       func() time.Time
	newNumber func(time.Time) (string, error)
}

func New(d Deps) *Service {
	return &Service{
		orders:    d.Orders,
		addresses: d.Addresses,
		catalog:   d.Catalog,
		coupons:   d.Coupons,
		carts:     d.Carts,
		tx:        d.Tx,
		logger:    logging.OrNop(d.Logger).Named("order"),
		now:       time.Now,
		newNumber: newOrderNumber,
	}
}

type Item struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type CreateInput struct {
	AddressID int64  `json:"addressId" binding:"required,gt=0"`
	Items     []Item `json:"items" binding:"required,min=1,dive"`
	CouponID  *int64 `json:"couponId,omitempty"`
	Remark    string `json:"remark,omitempty"`
}

type Filter struct {
	Status   string
	Page     int
	PageSize int
}

type Page struct {
	Orders   []domain.Order
	Total    int
	Page     int
	PageSize int
}

// Create turns the requested items into a pending order. Pricing, coupon
// redemption, persistence and cart draining run in one transaction.
func (s *Service) Create(ctx context.Context, projectID, accountID string, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrInvalidInput)
	}
	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d", domain.ErrInvalidInput, it.ProductID)
		}
		if it.Quantity > domain.MaxQuantity {
			return nil, fmt.Errorf("%w: quantity must not exceed %d for product %d", domain.ErrInvalidInput, domain.MaxQuantity, it.ProductID)
		}
		ids = append(ids, it.ProductID)
	}

	var created *domain.Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		addr, err := s.addresses.Get(ctx, projectID, accountID, in.AddressID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: address %d", domain.ErrNotFound, in.AddressID)
			}
			return err
		}

		products, err := s.catalog.GetMany(ctx, projectID, ids)
		if err != nil {
			return err
		}

		o := &domain.Order{
			ProjectID: projectID,
			AccountID: accountID,
			Status:    domain.OrderPending,
			Address:   addr.Snapshot(),
			Remark:    strings.TrimSpace(in.Remark),
			Items:     make([]domain.OrderItem, 0, len(in.Items)),
		}
		var total int64
		for _, it := range in.Items {
			p, ok := products[it.ProductID]
			if !ok {
				return fmt.Errorf("%w: product not found: %d", domain.ErrInvalidInput, it.ProductID)
			}
			if !p.Available() {
				return fmt.Errorf("%w: product %d is off shelf", domain.ErrUnavailable, it.ProductID)
			}
			line, ok := lineTotal(p.PriceCents, it.Quantity)
			if !ok || line > math.MaxInt64-total {
				return fmt.Errorf("%w: order total too large", domain.ErrInvalidInput)
			}
			total += line
			o.Items = append(o.Items, domain.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Spec:        p.Spec,
				PriceCents:  p.PriceCents,
				Quantity:    it.Quantity,
				ImageURL:    p.ImageURL,
			})
		}

		if in.CouponID != nil {
			discount, err := s.coupons.Redeem(ctx, projectID, accountID, *in.CouponID, total)
			if err != nil {
				return err
			}
			if discount > 0 {
				if discount > total {
					discount = total
				}
				o.DiscountCents = discount
				o.CouponID = in.CouponID
				total -= discount
			}
		}
		o.TotalCents = total

		if err := s.insertWithNumber(ctx, o); err != nil {
			return err
		}
		if err := s.orders.InsertItems(ctx, o.ID, o.Items); err != nil {
			return err
		}
		if o.CouponID != nil {
			if err := s.coupons.Attach(ctx, *o.CouponID, o.ID); err != nil {
				return err
			}
		}
		if err := s.carts.RemoveProducts(ctx, projectID, accountID, ids); err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("project_id", projectID),
		zap.String("account_id", accountID),
		zap.String("order_number", created.OrderNumber),
		zap.Int64("total_cents", created.TotalCents),
		zap.Int64("discount_cents", created.DiscountCents))
	return created, nil
}

func (s *Service) insertWithNumber(ctx context.Context, o *domain.Order) error {
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.newNumber(s.now())
		if err != nil {
			return err
		}
		o.OrderNumber = number
		err = s.orders.Insert(ctx, o)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return err
		}
	}
	return fmt.Errorf("%w: could not allocate a unique order number, retry", domain.ErrConflict)
}

// Pay moves a pending order to paid. An empty method means DefaultPaymentMethod.
func (s *Service) Pay(ctx context.Context, projectID, accountID string, orderID int64, method string) (*domain.Order, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultPaymentMethod
	}
	return s.transition(ctx, projectID, accountID, orderID, domain.ActionPay, "status does not allow payment",
		func(ctx context.Context, o *domain.Order) error {
			return s.orders.MarkPaid(ctx, o.ID, method, s.now())
		})
}

func (s *Service) Cancel(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error) {
	return s.transition(ctx, projectID, accountID, orderID, domain.ActionCancel, "status does not allow cancellation",
		func(ctx context.Context, o *domain.Order) error {
			return s.orders.SetStatus(ctx, o.ID, domain.OrderCanceled)
		})
}

func (s *Service) Confirm(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error) {
	return s.transition(ctx, projectID, accountID, orderID, domain.ActionConfirm, "status does not allow confirmation",
		func(ctx context.Context, o *domain.Order) error {
			return s.orders.SetStatus(ctx, o.ID, domain.OrderCompleted)
		})
}

// transition locks the order row, checks the state machine and applies the
// change. Concurrent callers serialize on the lock and the loser sees
// ErrConflict.
func (s *Service) transition(ctx context.Context, projectID, accountID string, orderID int64, action domain.OrderAction, refusal string, apply func(context.Context, *domain.Order) error) (*domain.Order, error) {
	var from domain.OrderStatus
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, projectID, accountID, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		if _, ok := o.Status.Next(action); !ok {
			return fmt.Errorf("%w: %s", domain.ErrConflict, refusal)
		}
		return apply(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	to, _ := from.Next(action)
	s.logger.Info("order transition",
		zap.Int64("order_id", orderID),
		zap.String("account_id", accountID),
		zap.String("action", string(action)),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return s.orders.Get(ctx, projectID, accountID, orderID)
}

func (s *Service) List(ctx context.Context, projectID, accountID string, f Filter) (*Page, error) {
	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(f.Status)))
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, f.Status)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	orders, total, err := s.orders.List(ctx, projectID, accountID, orderrepo.ListFilter{
		Status: status,
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, err
	}
	return &Page{Orders: orders, Total: total, Page: page, PageSize: size}, nil
}

func (s *Service) Detail(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error) {
	return s.orders.Get(ctx, projectID, accountID, orderID)
}

// lineTotal multiplies a unit price by a quantity, reporting false when the
// product does not fit in int64.
func lineTotal(priceCents int64, qty int) (int64, bool) {
	if priceCents == 0 || qty == 0 {
		return 0, true
	}
	q := int64(qty)
	if priceCents > math.MaxInt64/q {
		return 0, false
	}
	return priceCents * q, true
}
