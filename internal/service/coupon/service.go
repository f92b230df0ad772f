package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/logging"
	couponrepo "petshop-commerce/internal/repository/coupon"

	"go.uber.org/zap"
)

// StatusAll disables the status filter of ListMine.
const StatusAll = "all"

type Service struct {
	repo   couponrepo.Repository
	logger *zap.Logger
	now    func() time.Time
}

func New(repo couponrepo.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logging.OrNop(logger).Named("coupon"), now: time.Now}
}

func (s *Service) ListAvailable(ctx context.Context, projectID, accountID string) ([]domain.CouponOffer, error) {
	return s.repo.ListOffers(ctx, projectID, accountID, s.now())
}

// ListMine returns the account's instruments whose effective status matches
// status. Empty status means available.
func (s *Service) ListMine(ctx context.Context, projectID, accountID, status string) ([]domain.UserCoupon, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "":
		status = domain.CouponAvailable
	case domain.CouponAvailable, domain.CouponUsed, domain.CouponExpired, StatusAll:
	default:
		return nil, fmt.Errorf("%w: unknown coupon status %q", domain.ErrInvalidInput, status)
	}

	held, err := s.repo.ListHeld(ctx, projectID, accountID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]domain.UserCoupon, 0, len(held))
	for _, uc := range held {
		uc.Status = uc.EffectiveStatus(now)
		if status == StatusAll || uc.Status == status {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (s *Service) Receive(ctx context.Context, projectID, accountID string, couponID int64) (*domain.UserCoupon, error) {
	if _, err := s.repo.GetClaimable(ctx, projectID, couponID, s.now()); err != nil {
		return nil, err
	}
	uc, err := s.repo.Receive(ctx, projectID, accountID, couponID)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: coupon already received", domain.ErrConflict)
	}
	return uc, err
}

// Redeem consumes an instrument for an order of orderTotal cents and returns
// the discount. Missing, foreign, spent, expired or below-minimum
// instruments yield zero and leave the ledger untouched. Called inside the
// order transaction.
func (s *Service) Redeem(ctx context.Context, projectID, accountID string, instrumentID, orderTotal int64) (int64, error) {
	uc, err := s.repo.GetHeld(ctx, projectID, accountID, instrumentID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug("coupon not held", zap.Int64("coupon_id", instrumentID), zap.String("account_id", accountID))
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	now := s.now()
	if !uc.Eligible(orderTotal, now) {
		s.logger.Debug("coupon not eligible",
			zap.Int64("coupon_id", instrumentID),
			zap.String("status", uc.EffectiveStatus(now)),
			zap.Int64("order_total", orderTotal),
			zap.Int64("min_amount", uc.MinAmountCents))
		return 0, nil
	}
	ok, err := s.repo.MarkUsed(ctx, projectID, accountID, instrumentID, nil, now)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return uc.AmountCents, nil
}

// Attach links a redeemed instrument to the order it discounted.
func (s *Service) Attach(ctx context.Context, instrumentID, orderID int64) error {
	return s.repo.AttachOrder(ctx, instrumentID, orderID)
}

// Use marks an instrument used outside of order creation and returns its
// amount. Only one of several concurrent calls succeeds.
func (s *Service) Use(ctx context.Context, projectID, accountID string, instrumentID int64) (int64, error) {
	uc, err := s.repo.GetHeld(ctx, projectID, accountID, instrumentID)
	if err != nil {
		return 0, err
	}
	now := s.now()
	if st := uc.EffectiveStatus(now); st != domain.CouponAvailable {
		return 0, fmt.Errorf("%w: coupon is %s", domain.ErrConflict, st)
	}
	ok, err := s.repo.MarkUsed(ctx, projectID, accountID, instrumentID, nil, now)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: coupon is %s", domain.ErrConflict, domain.CouponUsed)
	}
	return uc.AmountCents, nil
}
