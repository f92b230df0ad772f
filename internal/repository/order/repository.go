package order

import (
	"context"
	"time"

	"petshop-commerce/internal/domain"
)

type ListFilter struct {
	Status domain.OrderStatus
	Limit  int
	Offset int
}

type Repository interface {
	Insert(ctx context.Context, o *domain.Order) error
	InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Order, error)
	GetForUpdate(ctx context.Context, projectID, accountID string, id int64) (*domain.Order, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	MarkPaid(ctx context.Context, id int64, method string, paidAt time.Time) error
	List(ctx context.Context, projectID, accountID string, f ListFilter) ([]domain.Order, int, error)
}
