package cart

import (
	"context"
	"fmt"

	"petshop-commerce/internal/domain"
	cartrepo "petshop-commerce/internal/repository/cart"
)

type Service struct {
	repo    cartRepo
	catalog priceReader
}

type cartRepo interface {
	AddLine(ctx context.Context, in cartrepo.AddLineInput) error
	Count(ctx context.Context, projectID, accountID string) (int, error)
	List(ctx context.Context, projectID, accountID string) ([]domain.CartItem, error)
	UpdateLine(ctx context.Context, projectID, accountID string, lineID int64, in cartrepo.UpdateLineInput) error
	RemoveLine(ctx context.Context, projectID, accountID string, lineID int64) error
	Clear(ctx context.Context, projectID, accountID string) error
}

type priceReader interface {
	GetPrice(ctx context.Context, projectID string, productID int64) (domain.PriceInfo, error)
}

func New(repo cartrepo.Repository, catalog priceReader) *Service {
	return &Service{repo: repo, catalog: catalog}
}

type AddInput struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  *int  `json:"quantity,omitempty" binding:"omitempty,min=1"`
}

type UpdateInput struct {
	Quantity *int  `json:"quantity,omitempty" binding:"omitempty,min=1"`
	Selected *bool `json:"selected,omitempty"`
}

// AddLine puts quantity units of a product into the account's cart and
// returns the resulting total number of units.
func (s *Service) AddLine(ctx context.Context, projectID, accountID string, in AddInput) (int, error) {
	if in.ProductID <= 0 {
		return 0, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if err := checkQuantity(qty); err != nil {
		return 0, err
	}

	price, err := s.catalog.GetPrice(ctx, projectID, in.ProductID)
	if err != nil {
		return 0, err
	}
	if !price.Available {
		return 0, fmt.Errorf("%w: product %d is off shelf", domain.ErrUnavailable, in.ProductID)
	}

	if err := s.repo.AddLine(ctx, cartrepo.AddLineInput{
		ProjectID: projectID,
		AccountID: accountID,
		ProductID: in.ProductID,
		Quantity:  qty,
	}); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, projectID, accountID)
}

func (s *Service) UpdateLine(ctx context.Context, projectID, accountID string, lineID int64, in UpdateInput) error {
	if in.Quantity == nil && in.Selected == nil {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if in.Quantity != nil {
		if err := checkQuantity(*in.Quantity); err != nil {
			return err
		}
	}
	return s.repo.UpdateLine(ctx, projectID, accountID, lineID, cartrepo.UpdateLineInput{
		Quantity: in.Quantity,
		Selected: in.Selected,
	})
}

func checkQuantity(qty int) error {
	switch {
	case qty <= 0:
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	case qty > domain.MaxQuantity:
		return fmt.Errorf("%w: quantity must not exceed %d", domain.ErrInvalidInput, domain.MaxQuantity)
	}
	return nil
}

// RemoveLine succeeds even when the line is absent or belongs to someone else.
func (s *Service) RemoveLine(ctx context.Context, projectID, accountID string, lineID int64) error {
	return s.repo.RemoveLine(ctx, projectID, accountID, lineID)
}

func (s *Service) Clear(ctx context.Context, projectID, accountID string) error {
	return s.repo.Clear(ctx, projectID, accountID)
}

func (s *Service) List(ctx context.Context, projectID, accountID string) ([]domain.CartItem, error) {
	return s.repo.List(ctx, projectID, accountID)
}

func (s *Service) Count(ctx context.Context, projectID, accountID string) (int, error) {
	return s.repo.Count(ctx, projectID, accountID)
}
