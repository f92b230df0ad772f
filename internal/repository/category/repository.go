package category

import (
	"context"

	"petshop-commerce/internal/domain"
)

type Repository interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Category, error)
}
