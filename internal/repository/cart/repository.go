package cart

import (
	"context"

	"petshop-commerce/internal/domain"
)

type AddLineInput struct {
	ProjectID string
	AccountID string
	ProductID int64
	Quantity  int
}

// UpdateLineInput carries a partial change; nil fields are left untouched.
type UpdateLineInput struct {
	Quantity *int
	Selected *bool
}

type Repository interface {
	AddLine(ctx context.Context, in AddLineInput) error
	Count(ctx context.Context, projectID, accountID string) (int, error)
	List(ctx context.Context, projectID, accountID string) ([]domain.CartItem, error)
	UpdateLine(ctx context.Context, projectID, accountID string, lineID int64, in UpdateLineInput) error
	RemoveLine(ctx context.Context, projectID, accountID string, lineID int64) error
	Clear(ctx context.Context, projectID, accountID string) error
	RemoveProducts(ctx context.Context, projectID, accountID string, productIDs []int64) error
}
