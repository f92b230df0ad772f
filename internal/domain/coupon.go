package domain

import "time"

// Coupon statuses. CouponExpired is derived at read time and never stored.
const (
	CouponAvailable = "available"
	CouponUsed      = "used"
	CouponExpired   = "expired"
)

// Coupon is an issued discount template that accounts can claim.
type Coupon struct {
	ID             int64
	ProjectID      string
	Name           string
	AmountCents    int64
	MinAmountCents int64
	ExpiresAt      time.Time
	Status         string
}

// CouponOffer is a claimable coupon annotated for one account.
type CouponOffer struct {
	Coupon
	Received bool
}

// UserCoupon is a discount instrument held by an account.
type UserCoupon struct {
	ID             int64
	ProjectID      string
	AccountID      string
	CouponID       int64
	Name           string
	AmountCents    int64
	MinAmountCents int64
	ExpiresAt      time.Time
	Status         string
	ReceivedAt     time.Time
	UsedAt         *time.Time
}

// EffectiveStatus folds expiry into the stored status.
func (c UserCoupon) EffectiveStatus(now time.Time) string {
	if c.Status == CouponAvailable && c.ExpiresAt.Before(now) {
		return CouponExpired
	}
	return c.Status
}

// Eligible reports whether the instrument can discount an order of total cents.
func (c UserCoupon) Eligible(total int64, now time.Time) bool {
	return c.EffectiveStatus(now) == CouponAvailable && total >= c.MinAmountCents
}
