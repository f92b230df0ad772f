package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"testing"
	"time"

	"petshop-commerce/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedScenario builds account u1 with product 7 (10.00, qty 2 in cart) and
// default address 5.
func seedScenario() *world {
	w := newWorld()
	w.products[7] = domain.Product{ID: 7, Name: "Chicken Kibble", Spec: "2kg", PriceCents: 1000, ImageURL: "k.jpg", Status: domain.ProductStatusActive}
	w.products[8] = domain.Product{ID: 8, Name: "Old Leash", PriceCents: 900, Status: 0}
	w.addresses[5] = domain.Address{ID: 5, AccountID: "u1", Name: "Ann", City: "Hangzhou", IsDefault: true, Status: domain.AddressActive}
	w.cart[cartKey{"u1", 7}] = 2
	return w
}

func createInput(couponID *int64) CreateInput {
	return CreateInput{AddressID: 5, Items: []Item{{ProductID: 7, Quantity: 2}}, CouponID: couponID}
}

func TestCreateScenario(t *testing.T) {
	w := seedScenario()
	svc := w.service()

	o, err := svc.Create(context.Background(), "proj", "u1", createInput(nil))
	require.NoError(t, err)

	assert.Equal(t, int64(2000), o.TotalCents)
	assert.Equal(t, domain.OrderPending, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(1000), o.Items[0].PriceCents)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Chicken Kibble", o.Items[0].ProductName)
	assert.Equal(t, "Hangzhou", o.Address.City)
	assert.Regexp(t, regexp.MustCompile(`^OD\d{14}\d{6}$`), o.OrderNumber)

	_, inCart := w.cart[cartKey{"u1", 7}]
	assert.False(t, inCart, "purchased product must leave the cart")
}

func TestCreateIgnoresIneligibleCoupon(t *testing.T) {
	w := seedScenario()
	w.coupons[3] = domain.UserCoupon{ID: 3, AccountID: "u1", AmountCents: 500, MinAmountCents: 2500, ExpiresAt: w.clock.Add(time.Hour), Status: domain.CouponAvailable}
	svc := w.service()

	id := int64(3)
	o, err := svc.Create(context.Background(), "proj", "u1", createInput(&id))
	require.NoError(t, err)
	assert.Equal(t, int64(2000), o.TotalCents)
	assert.Zero(t, o.DiscountCents)
	assert.Nil(t, o.CouponID)
	assert.Equal(t, domain.CouponAvailable, w.coupons[3].Status)
}

func TestCreateAppliesEligibleCoupon(t *testing.T) {
	w := seedScenario()
	w.coupons[3] = domain.UserCoupon{ID: 3, AccountID: "u1", AmountCents: 500, MinAmountCents: 1500, ExpiresAt: w.clock.Add(time.Hour), Status: domain.CouponAvailable}
	svc := w.service()

	id := int64(3)
	o, err := svc.Create(context.Background(), "proj", "u1", createInput(&id))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), o.TotalCents)
	assert.Equal(t, int64(500), o.DiscountCents)
	require.NotNil(t, o.CouponID)
	assert.Equal(t, domain.CouponUsed, w.coupons[3].Status)
}

func TestCreateDiscountNeverBelowZero(t *testing.T) {
	w := seedScenario()
	w.coupons[3] = domain.UserCoupon{ID: 3, AccountID: "u1", AmountCents: 5000, ExpiresAt: w.clock.Add(time.Hour), Status: domain.CouponAvailable}
	svc := w.service()

	id := int64(3)
	o, err := svc.Create(context.Background(), "proj", "u1", createInput(&id))
	require.NoError(t, err)
	assert.Zero(t, o.TotalCents)
	assert.Equal(t, int64(2000), o.DiscountCents)
}

func TestCreateValidation(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	ctx := context.Background()

	_, err := svc.Create(ctx, "proj", "u1", CreateInput{AddressID: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "proj", "u1", CreateInput{AddressID: 5, Items: []Item{{ProductID: 7, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, "proj", "u2", createInput(nil))
	assert.ErrorIs(t, err, domain.ErrNotFound, "foreign address")

	_, err = svc.Create(ctx, "proj", "u1", CreateInput{AddressID: 5, Items: []Item{{ProductID: 8, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Empty(t, w.orders)
}

func TestCreateRejectsOversizedQuantity(t *testing.T) {
	w := seedScenario()
	svc := w.service()

	_, err := svc.Create(context.Background(), "proj", "u1", CreateInput{AddressID: 5, Items: []Item{{ProductID: 7, Quantity: domain.MaxQuantity + 1}}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, w.orders)
}

func TestCreateRejectsTotalOverflow(t *testing.T) {
	w := seedScenario()
	w.products[9] = domain.Product{ID: 9, Name: "Gold Collar", PriceCents: math.MaxInt64 / 4, Status: domain.ProductStatusActive}
	svc := w.service()
	ctx := context.Background()

	_, err := svc.Create(ctx, "proj", "u1", CreateInput{AddressID: 5, Items: []Item{{ProductID: 9, Quantity: 5}}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "order total too large")

	_, err = svc.Create(ctx, "proj", "u1", CreateInput{AddressID: 5, Items: []Item{{ProductID: 9, Quantity: 3}, {ProductID: 9, Quantity: 2}}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, w.orders)
	assert.Equal(t, 2, w.cart[cartKey{"u1", 7}])
}

func TestLineTotal(t *testing.T) {
	got, ok := lineTotal(1999, 3)
	assert.True(t, ok)
	assert.Equal(t, int64(5997), got)

	_, ok = lineTotal(4, 1<<62)
	assert.False(t, ok)

	got, ok = lineTotal(0, domain.MaxQuantity)
	assert.True(t, ok)
	assert.Zero(t, got)
}

func TestCreateUnknownProductLeavesNoTrace(t *testing.T) {
	w := seedScenario()
	w.coupons[3] = domain.UserCoupon{ID: 3, AccountID: "u1", AmountCents: 500, ExpiresAt: w.clock.Add(time.Hour), Status: domain.CouponAvailable}
	svc := w.service()

	id := int64(3)
	in := CreateInput{AddressID: 5, Items: []Item{{ProductID: 7, Quantity: 2}, {ProductID: 404, Quantity: 1}}, CouponID: &id}
	_, err := svc.Create(context.Background(), "proj", "u1", in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "product not found: 404")

	assert.Empty(t, w.orders)
	assert.Equal(t, domain.CouponAvailable, w.coupons[3].Status)
	assert.Equal(t, 2, w.cart[cartKey{"u1", 7}])
}

func TestCreateRollsBackOnLateFailure(t *testing.T) {
	w := seedScenario()
	w.coupons[3] = domain.UserCoupon{ID: 3, AccountID: "u1", AmountCents: 500, ExpiresAt: w.clock.Add(time.Hour), Status: domain.CouponAvailable}
	w.failCartPurge = errors.New("connection reset")
	svc := w.service()

	id := int64(3)
	_, err := svc.Create(context.Background(), "proj", "u1", createInput(&id))
	require.Error(t, err)

	assert.Empty(t, w.orders)
	assert.Equal(t, domain.CouponAvailable, w.coupons[3].Status)
	assert.Equal(t, 2, w.cart[cartKey{"u1", 7}])
}

func TestCreateRetriesOrderNumber(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	w.takenNumbers["OD-1"] = true
	w.takenNumbers["OD-2"] = true
	calls := 0
	svc.newNumber = func(time.Time) (string, error) {
		calls++
		return fmt.Sprintf("OD-%d", calls), nil
	}

	o, err := svc.Create(context.Background(), "proj", "u1", createInput(nil))
	require.NoError(t, err)
	assert.Equal(t, "OD-3", o.OrderNumber)
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	w.takenNumbers["OD-dup"] = true
	svc.newNumber = func(time.Time) (string, error) { return "OD-dup", nil }

	_, err := svc.Create(context.Background(), "proj", "u1", createInput(nil))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, w.orders, 0)
}

func TestTransitions(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	ctx := context.Background()

	o, err := svc.Create(ctx, "proj", "u1", createInput(nil))
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, "proj", "u1", o.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "confirm from pending")

	paid, err := svc.Pay(ctx, "proj", "u1", o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, paid.Status)
	assert.Equal(t, DefaultPaymentMethod, paid.PaymentMethod)
	assert.Equal(t, 1, paid.PaymentStatus)
	assert.NotNil(t, paid.PaidAt)

	_, err = svc.Pay(ctx, "proj", "u1", o.ID, "alipay")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "status does not allow payment")
	assert.Equal(t, DefaultPaymentMethod, w.orders[o.ID].PaymentMethod)

	done, err := svc.Confirm(ctx, "proj", "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, done.Status)

	_, err = svc.Cancel(ctx, "proj", "u1", o.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "cancel from completed")
	assert.Equal(t, domain.OrderCompleted, w.orders[o.ID].Status)

	_, err = svc.Pay(ctx, "proj", "u2", o.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelFromPaid(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	ctx := context.Background()

	o, err := svc.Create(ctx, "proj", "u1", createInput(nil))
	require.NoError(t, err)
	_, err = svc.Pay(ctx, "proj", "u1", o.ID, "card")
	require.NoError(t, err)

	canceled, err := svc.Cancel(ctx, "proj", "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCanceled, canceled.Status)

	_, err = svc.Pay(ctx, "proj", "u1", o.ID, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListPaging(t *testing.T) {
	w := seedScenario()
	svc := w.service()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, "proj", "u1", createInput(nil))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, "proj", "u1", Filter{})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Orders, DefaultPageSize)
	assert.Equal(t, 1, page.Page)
	assert.Greater(t, page.Orders[0].ID, page.Orders[1].ID, "newest first")

	second, err := svc.List(ctx, "proj", "u1", Filter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, second.Orders, 2)

	capped, err := svc.List(ctx, "proj", "u1", Filter{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, capped.PageSize)

	_, err = svc.List(ctx, "proj", "u1", Filter{Status: "shipped"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pending, err := svc.List(ctx, "proj", "u1", Filter{Status: "PENDING"})
	require.NoError(t, err)
	assert.Equal(t, 12, pending.Total)

	_, err = svc.Detail(ctx, "proj", "u2", page.Orders[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 8, 7, 0, time.UTC)
	n, err := newOrderNumber(now)
	require.NoError(t, err)
	assert.Regexp(t, `^OD20260501090807\d{6}$`, n)
}
