package domain

import (
	"math"
	"time"
)

// MaxQuantity is the largest quantity a cart line or order item can hold.
const MaxQuantity = math.MaxInt32

// CartLine is one (product, quantity) entry of an account's cart.
type CartLine struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"-"`
	AccountID string    `json:"-"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	Selected  bool      `json:"selected"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartItem is a cart line joined with the current catalog row for display.
type CartItem struct {
	CartLine
	Name               string
	PriceCents         int64
	OriginalPriceCents int64
	Category           string
	ImageURL           string
	Stock              int
	Status             int
}
