package domain

// Category summarizes one catalog category of on-sale products.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"productCount"`
}
