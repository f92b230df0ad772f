package domain

import "time"

// ProductStatusActive marks a product that can be sold.
const ProductStatusActive = 1

type Product struct {
	ID                 int64     `json:"id"`
	ProjectID          string    `json:"-"`
	Key                string    `json:"key"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	Spec               string    `json:"spec,omitempty"`
	Category           string    `json:"category,omitempty"`
	Description        string    `json:"description,omitempty"`
	PriceCents         int64     `json:"-"`
	OriginalPriceCents int64     `json:"-"`
	ImageURL           string    `json:"image,omitempty"`
	Stock              int       `json:"stock"`
	Status             int       `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Available reports whether the catalog lists the product as on sale.
func (p Product) Available() bool {
	return p.Status == ProductStatusActive
}

// PriceInfo is the catalog answer used by the cart and order paths.
type PriceInfo struct {
	PriceCents int64
	Available  bool
}
