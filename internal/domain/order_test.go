package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusNext(t *testing.T) {
	cases := []struct {
		from OrderStatus
		act  OrderAction
		to   OrderStatus
		ok   bool
	}{
		{OrderPending, ActionPay, OrderPaid, true},
		{OrderPending, ActionCancel, OrderCanceled, true},
		{OrderPending, ActionConfirm, "", false},
		{OrderPaid, ActionPay, "", false},
		{OrderPaid, ActionConfirm, OrderCompleted, true},
		{OrderPaid, ActionCancel, OrderCanceled, true},
		{OrderCompleted, ActionPay, "", false},
		{OrderCompleted, ActionCancel, "", false},
		{OrderCompleted, ActionConfirm, "", false},
		{OrderCanceled, ActionPay, "", false},
		{OrderCanceled, ActionCancel, "", false},
		{OrderCanceled, ActionConfirm, "", false},
	}
	for _, tc := range cases {
		got, ok := tc.from.Next(tc.act)
		assert.Equal(t, tc.ok, ok, "%s --%s-->", tc.from, tc.act)
		assert.Equal(t, tc.to, got, "%s --%s-->", tc.from, tc.act)
	}
}

func TestUserCouponEligibility(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := UserCoupon{Status: CouponAvailable, MinAmountCents: 2500, ExpiresAt: now.Add(time.Hour)}

	assert.False(t, c.Eligible(2000, now))
	assert.True(t, c.Eligible(2500, now))

	c.ExpiresAt = now.Add(-time.Second)
	assert.Equal(t, CouponExpired, c.EffectiveStatus(now))
	assert.False(t, c.Eligible(5000, now))

	c.Status = CouponUsed
	assert.Equal(t, CouponUsed, c.EffectiveStatus(now))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "10.00", FormatCents(1000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1234.50", FormatCents(123450))
	assert.Equal(t, "-3.10", FormatCents(-310))
}
