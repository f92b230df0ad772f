package coupon

import (
	"context"
	"time"

	"petshop-commerce/internal/domain"
)

type Repository interface {
	CreateTemplate(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	ListOffers(ctx context.Context, projectID, accountID string, now time.Time) ([]domain.CouponOffer, error)
	ListHeld(ctx context.Context, projectID, accountID string) ([]domain.UserCoupon, error)
	GetClaimable(ctx context.Context, projectID string, couponID int64, now time.Time) (*domain.Coupon, error)
	Receive(ctx context.Context, projectID, accountID string, couponID int64) (*domain.UserCoupon, error)
	GetHeld(ctx context.Context, projectID, accountID string, id int64) (*domain.UserCoupon, error)
	MarkUsed(ctx context.Context, projectID, accountID string, id int64, orderID *int64, now time.Time) (bool, error)
	AttachOrder(ctx context.Context, id, orderID int64) error
}
