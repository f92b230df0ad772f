package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// OrderAction is a client-triggered transition.
type OrderAction string

const (
	ActionPay     OrderAction = "pay"
	ActionCancel  OrderAction = "cancel"
	ActionConfirm OrderAction = "confirm"
)

var orderTransitions = map[OrderStatus]map[OrderAction]OrderStatus{
	OrderPending: {
		ActionPay:    OrderPaid,
		ActionCancel: OrderCanceled,
	},
	OrderPaid: {
		ActionConfirm: OrderCompleted,
		ActionCancel:  OrderCanceled,
	},
}

// Next returns the status reached by applying a, and false when the
// current status does not allow it. completed and canceled are terminal.
func (s OrderStatus) Next(a OrderAction) (OrderStatus, bool) {
	next, ok := orderTransitions[s][a]
	return next, ok
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

type Order struct {
	ID            int64
	ProjectID     string
	OrderNumber   string
	AccountID     string
	TotalCents    int64
	DiscountCents int64
	CouponID      *int64
	Status        OrderStatus
	Address       AddressSnapshot
	PaymentMethod string
	PaymentStatus int
	Remark        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	PaidAt        *time.Time
	Items         []OrderItem
}

// OrderItem freezes the product as it was at purchase time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Spec        string
	PriceCents  int64
	Quantity    int
	ImageURL    string
}
