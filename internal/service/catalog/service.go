package catalog

import (
	"context"
	"fmt"
	"strings"

	"petshop-commerce/internal/domain"
	productrepo "petshop-commerce/internal/repository/product"
)

// Service is the read-only view of the product catalog used by cart and
// order flows.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, projectID string, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: product id must be positive", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *Service) GetPrice(ctx context.Context, projectID string, id int64) (domain.PriceInfo, error) {
	p, err := s.Get(ctx, projectID, id)
	if err != nil {
		return domain.PriceInfo{}, err
	}
	return domain.PriceInfo{PriceCents: p.PriceCents, Available: p.Available()}, nil
}

// GetMany resolves several products at once. Unknown ids are omitted.
func (s *Service) GetMany(ctx context.Context, projectID string, ids []int64) (map[int64]domain.Product, error) {
	return s.repo.GetMany(ctx, projectID, ids)
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListQuery struct {
	Category string
	Sort     string
	Page     int
	PageSize int
}

type Page struct {
	Products []domain.Product
	Total    int
	Page     int
	PageSize int
}

// List pages through on-sale products. Page and PageSize fall back to 1 and
// DefaultPageSize when unset.
func (s *Service) List(ctx context.Context, projectID string, q ListQuery) (*Page, error) {
	switch q.Sort {
	case "", productrepo.SortNewest, productrepo.SortPriceAsc, productrepo.SortPriceDesc:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", domain.ErrInvalidInput, q.Sort)
	}
	if q.Page < 0 || q.PageSize < 0 {
		return nil, fmt.Errorf("%w: page and pageSize must not be negative", domain.ErrInvalidInput)
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	products, total, err := s.repo.List(ctx, productrepo.ListFilter{
		ProjectID: projectID,
		Category:  strings.TrimSpace(q.Category),
		Sort:      q.Sort,
		Limit:     q.PageSize,
		Offset:    (q.Page - 1) * q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &Page{Products: products, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}
