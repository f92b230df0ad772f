package product

import (
	"context"

	"petshop-commerce/internal/domain"
)

// Sort orders for List.
const (
	SortNewest    = "default"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListFilter selects on-sale products of one project.
type ListFilter struct {
	ProjectID string
	Category  string
	Sort      string
	Limit     int
	Offset    int
}

type Repository interface {
	GetByID(ctx context.Context, projectID string, id int64) (*domain.Product, error)
	GetMany(ctx context.Context, projectID string, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, f ListFilter) ([]domain.Product, int, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
