package category

import (
	"context"

	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the categories that currently have products on sale.
func (s *Service) List(ctx context.Context, projectID string) ([]domain.Category, error) {
	list, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Category{}
	}
	return list, nil
}
