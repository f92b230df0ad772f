package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"petshop-commerce/internal/domain"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type lifecycleContext struct {
	w       *world
	svc     *Service
	order   *domain.Order
	err     error
	lastErr error
}

func (c *lifecycleContext) reset() {
	c.w = newWorld()
	c.svc = c.w.service()
	c.order = nil
	c.err = nil
	c.lastErr = nil
}

func cents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).IntPart(), nil
}

func (c *lifecycleContext) aProductPriced(id int64, price string) error {
	p, err := cents(price)
	if err != nil {
		return err
	}
	c.w.products[id] = domain.Product{ID: id, Name: fmt.Sprintf("product %d", id), PriceCents: p, Status: domain.ProductStatusActive}
	return nil
}

func (c *lifecycleContext) accountHasDefaultAddress(account string, id int64) error {
	c.w.addresses[id] = domain.Address{ID: id, AccountID: account, Name: "Ann", City: "Hangzhou", IsDefault: true, Status: domain.AddressActive}
	return nil
}

func (c *lifecycleContext) accountHasInCart(account string, qty int, product int64) error {
	c.w.cart[cartKey{account, product}] = qty
	return nil
}

func (c *lifecycleContext) accountHoldsCoupon(account string, id int64, amount, min string) error {
	a, err := cents(amount)
	if err != nil {
		return err
	}
	m, err := cents(min)
	if err != nil {
		return err
	}
	c.w.coupons[id] = domain.UserCoupon{
		ID:             id,
		AccountID:      account,
		AmountCents:    a,
		MinAmountCents: m,
		ExpiresAt:      c.w.clock.Add(24 * time.Hour),
		Status:         domain.CouponAvailable,
	}
	return nil
}

func (c *lifecycleContext) create(account string, qty int, product, address int64, coupon *int64) {
	c.order, c.err = c.svc.Create(context.Background(), "proj", account, CreateInput{
		AddressID: address,
		Items:     []Item{{ProductID: product, Quantity: qty}},
		CouponID:  coupon,
	})
}

func (c *lifecycleContext) accountOrders(account string, qty int, product, address int64) error {
	c.create(account, qty, product, address, nil)
	return nil
}

func (c *lifecycleContext) accountOrdersWithCoupon(account string, qty int, product, address, coupon int64) error {
	c.create(account, qty, product, address, &coupon)
	return nil
}

func (c *lifecycleContext) theOrderIs(action string) error {
	if c.order == nil {
		return errors.New("no order was created")
	}
	ctx := context.Background()
	var o *domain.Order
	switch action {
	case "paid":
		o, c.lastErr = c.svc.Pay(ctx, "proj", c.order.AccountID, c.order.ID, "")
	case "canceled":
		o, c.lastErr = c.svc.Cancel(ctx, "proj", c.order.AccountID, c.order.ID)
	case "confirmed":
		o, c.lastErr = c.svc.Confirm(ctx, "proj", c.order.AccountID, c.order.ID)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	if c.lastErr == nil {
		c.order = o
	}
	return nil
}

func (c *lifecycleContext) theOrderSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("expected order, got error: %v", c.err)
	}
	return nil
}

func (c *lifecycleContext) theOrderFailsWith(msg string) error {
	if c.err == nil {
		return errors.New("expected order creation to fail")
	}
	if !strings.Contains(c.err.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %v", msg, c.err)
	}
	return nil
}

func (c *lifecycleContext) theLastActionSucceeds() error {
	if c.lastErr != nil {
		return fmt.Errorf("expected success, got %v", c.lastErr)
	}
	return nil
}

func (c *lifecycleContext) theLastActionFailsWith(msg string) error {
	if c.lastErr == nil {
		return errors.New("expected the last action to fail")
	}
	if !strings.Contains(c.lastErr.Error(), msg) {
		return fmt.Errorf("expected error containing %q, got %v", msg, c.lastErr)
	}
	return nil
}

func (c *lifecycleContext) theOrderTotalIs(total string) error {
	want, err := cents(total)
	if err != nil {
		return err
	}
	if c.order.TotalCents != want {
		return fmt.Errorf("expected total %s, got %s", total, domain.FormatCents(c.order.TotalCents))
	}
	return nil
}

func (c *lifecycleContext) theOrderStatusIs(status string) error {
	stored, ok := c.w.orders[c.order.ID]
	if !ok {
		return errors.New("order not stored")
	}
	if string(stored.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, stored.Status)
	}
	return nil
}

func (c *lifecycleContext) theOrderHasLine(n int, price string, qty int) error {
	want, err := cents(price)
	if err != nil {
		return err
	}
	if len(c.order.Items) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(c.order.Items))
	}
	it := c.order.Items[0]
	if it.PriceCents != want || it.Quantity != qty {
		return fmt.Errorf("unexpected line %+v", it)
	}
	return nil
}

func (c *lifecycleContext) accountHasNoProductInCart(account string, product int64) error {
	if _, ok := c.w.cart[cartKey{account, product}]; ok {
		return fmt.Errorf("product %d still in cart", product)
	}
	return nil
}

func (c *lifecycleContext) accountStillHasInCart(account string, qty int, product int64) error {
	if got := c.w.cart[cartKey{account, product}]; got != qty {
		return fmt.Errorf("expected %d of product %d in cart, got %d", qty, product, got)
	}
	return nil
}

func (c *lifecycleContext) couponIs(id int64, status string) error {
	if got := c.w.coupons[id].Status; got != status {
		return fmt.Errorf("expected coupon %d %s, got %s", id, status, got)
	}
	return nil
}

func (c *lifecycleContext) noOrderExists() error {
	if len(c.w.orders) != 0 {
		return fmt.Errorf("expected no orders, found %d", len(c.w.orders))
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^a product (\d+) priced (\d+\.\d{2})$`, lc.aProductPriced)
	ctx.Step(`^account "([^"]*)" has address (\d+) as default$`, lc.accountHasDefaultAddress)
	ctx.Step(`^account "([^"]*)" has (\d+) of product (\d+) in the cart$`, lc.accountHasInCart)
	ctx.Step(`^account "([^"]*)" holds coupon (\d+) worth (\d+\.\d{2}) with minimum (\d+\.\d{2})$`, lc.accountHoldsCoupon)

	// When
	ctx.Step(`^account "([^"]*)" orders (\d+) of product (\d+) shipped to address (\d+)$`, lc.accountOrders)
	ctx.Step(`^account "([^"]*)" orders (\d+) of product (\d+) shipped to address (\d+) with coupon (\d+)$`, lc.accountOrdersWithCoupon)
	ctx.Step(`^the order is (paid|canceled|confirmed)$`, lc.theOrderIs)

	// Then
	ctx.Step(`^the order succeeds$`, lc.theOrderSucceeds)
	ctx.Step(`^the order fails with "([^"]*)"$`, lc.theOrderFailsWith)
	ctx.Step(`^the last action succeeds$`, lc.theLastActionSucceeds)
	ctx.Step(`^the last action fails with "([^"]*)"$`, lc.theLastActionFailsWith)
	ctx.Step(`^the order total is (\d+\.\d{2})$`, lc.theOrderTotalIs)
	ctx.Step(`^the order status is "([^"]*)"$`, lc.theOrderStatusIs)
	ctx.Step(`^the order has (\d+) line priced (\d+\.\d{2}) with quantity (\d+)$`, lc.theOrderHasLine)
	ctx.Step(`^account "([^"]*)" has no product (\d+) in the cart$`, lc.accountHasNoProductInCart)
	ctx.Step(`^account "([^"]*)" still has (\d+) of product (\d+) in the cart$`, lc.accountStillHasInCart)
	ctx.Step(`^coupon (\d+) is "([^"]*)"$`, lc.couponIs)
	ctx.Step(`^no order exists$`, lc.noOrderExists)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/order_lifecycle.feature"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
