package address

import (
	"context"
	"fmt"
	"strings"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
	addressrepo "petshop-commerce/internal/repository/address"
)

type Service struct {
	repo addressrepo.Repository
	tx   db.TxRunner
}

func New(repo addressrepo.Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

type Input struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Province  *string `json:"province,omitempty"`
	City      *string `json:"city,omitempty"`
	District  *string `json:"district,omitempty"`
	Detail    *string `json:"detail,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

func (in Input) fields() []struct {
	name string
	v    *string
} {
	return []struct {
		name string
		v    *string
	}{
		{"name", in.Name},
		{"phone", in.Phone},
		{"province", in.Province},
		{"city", in.City},
		{"district", in.District},
		{"detail", in.Detail},
	}
}

func (s *Service) List(ctx context.Context, projectID, accountID string) ([]domain.Address, error) {
	return s.repo.List(ctx, projectID, accountID)
}

func (s *Service) Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Address, error) {
	return s.repo.Get(ctx, projectID, accountID, id)
}

// Add stores a new address. When it is the default, any previous default of
// the account is cleared in the same transaction.
func (s *Service) Add(ctx context.Context, projectID, accountID string, in Input) (*domain.Address, error) {
	for _, f := range in.fields() {
		if f.v == nil || strings.TrimSpace(*f.v) == "" {
			return nil, fmt.Errorf("%w: %s required", domain.ErrInvalidInput, f.name)
		}
	}
	a := domain.Address{
		ProjectID: projectID,
		AccountID: accountID,
		Name:      strings.TrimSpace(*in.Name),
		Phone:     strings.TrimSpace(*in.Phone),
		Province:  strings.TrimSpace(*in.Province),
		City:      strings.TrimSpace(*in.City),
		District:  strings.TrimSpace(*in.District),
		Detail:    strings.TrimSpace(*in.Detail),
		IsDefault: in.IsDefault != nil && *in.IsDefault,
	}

	var created *domain.Address
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if a.IsDefault {
			if err := s.clearDefaults(ctx, projectID, accountID); err != nil {
				return err
			}
		}
		var err error
		created, err = s.repo.Create(ctx, a)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the provided fields. isDefault=true makes the address the
// only default; isDefault=false is ignored.
func (s *Service) Update(ctx context.Context, projectID, accountID string, id int64, in Input) (*domain.Address, error) {
	for _, f := range in.fields() {
		if f.v != nil && strings.TrimSpace(*f.v) == "" {
			return nil, fmt.Errorf("%w: %s must not be blank", domain.ErrInvalidInput, f.name)
		}
	}
	patch := addressrepo.Patch{
		Name:     trimmed(in.Name),
		Phone:    trimmed(in.Phone),
		Province: trimmed(in.Province),
		City:     trimmed(in.City),
		District: trimmed(in.District),
		Detail:   trimmed(in.Detail),
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, projectID, accountID, id, patch); err != nil {
			return err
		}
		if in.IsDefault != nil && *in.IsDefault {
			return s.makeDefault(ctx, projectID, accountID, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, projectID, accountID, id)
}

func (s *Service) SetDefault(ctx context.Context, projectID, accountID string, id int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.makeDefault(ctx, projectID, accountID, id)
	})
}

// Remove soft-deletes the address; a removed default leaves the account
// without one.
func (s *Service) Remove(ctx context.Context, projectID, accountID string, id int64) error {
	return s.repo.Remove(ctx, projectID, accountID, id)
}

func (s *Service) makeDefault(ctx context.Context, projectID, accountID string, id int64) error {
	if err := s.clearDefaults(ctx, projectID, accountID); err != nil {
		return err
	}
	return s.repo.MarkDefault(ctx, projectID, accountID, id)
}

func (s *Service) clearDefaults(ctx context.Context, projectID, accountID string) error {
	if err := s.repo.LockAccount(ctx, projectID, accountID); err != nil {
		return err
	}
	return s.repo.ClearDefaults(ctx, projectID, accountID)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
