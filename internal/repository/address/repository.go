package address

import (
	"context"

	"petshop-commerce/internal/domain"
)

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Name     *string
	Phone    *string
	Province *string
	City     *string
	District *string
	Detail   *string
}

type Repository interface {
	List(ctx context.Context, projectID, accountID string) ([]domain.Address, error)
	Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Address, error)
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, projectID, accountID string, id int64, p Patch) error
	LockAccount(ctx context.Context, projectID, accountID string) error
	ClearDefaults(ctx context.Context, projectID, accountID string) error
	MarkDefault(ctx context.Context, projectID, accountID string, id int64) error
	Remove(ctx context.Context, projectID, accountID string, id int64) error
}
