package seed

import (
	"context"
	"fmt"
	"time"

	"petshop-commerce/internal/domain"
)

const (
	DemoProjectKey  = "demo"
	demoProjectName = "Demo Pet Shop"
)

type projectEnsurer interface {
	Ensure(ctx context.Context, key, name string) (*domain.Project, error)
}

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type couponWriter interface {
	CreateTemplate(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	ListOffers(ctx context.Context, projectID, accountID string, now time.Time) ([]domain.CouponOffer, error)
}

type Deps struct {
	Projects projectEnsurer
	Products productWriter
	Coupons  couponWriter
}

// Result reports what the demo project now contains.
type Result struct {
	Project  *domain.Project
	Products []domain.Product
	Coupons  int
}

var demoProducts = []domain.Product{
	{Key: "kibble-adult-2kg", SKU: "SKU-KIB-2KG", Name: "Adult Dog Kibble", Spec: "2kg", Category: "dog-food", Description: "Chicken and rice recipe", PriceCents: 12990, OriginalPriceCents: 15900, Stock: 120, Status: domain.ProductStatusActive},
	{Key: "cat-litter-10l", SKU: "SKU-LIT-10L", Name: "Clumping Cat Litter", Spec: "10L", Category: "cat-care", Description: "Low dust bentonite", PriceCents: 4590, OriginalPriceCents: 4590, Stock: 80, Status: domain.ProductStatusActive},
	{Key: "rope-toy", SKU: "SKU-TOY-ROPE", Name: "Cotton Rope Toy", Spec: "M", Category: "toys", PriceCents: 1990, OriginalPriceCents: 2500, Stock: 300, Status: domain.ProductStatusActive},
	{Key: "aquarium-heater", SKU: "SKU-AQ-HEAT", Name: "Aquarium Heater", Spec: "50W", Category: "aquatics", Description: "Discontinued model", PriceCents: 8900, OriginalPriceCents: 8900, Status: 0},
}

type couponSeed struct {
	Name      string
	Amount    int64
	MinAmount int64
	ValidFor  time.Duration
}

var demoCoupons = []couponSeed{
	{Name: "New pet welcome", Amount: 1000, MinAmount: 5000, ValidFor: 30 * 24 * time.Hour},
	{Name: "Big haul", Amount: 3000, MinAmount: 20000, ValidFor: 14 * 24 * time.Hour},
	{Name: "No minimum", Amount: 500, MinAmount: 0, ValidFor: 7 * 24 * time.Hour},
}

// Apply populates the demo project. Products upsert by key and coupon
// templates are only created when no claimable template of the same name
// exists, so repeated runs do not pile up duplicates.
func Apply(ctx context.Context, d Deps, now time.Time) (*Result, error) {
	project, err := d.Projects.Ensure(ctx, DemoProjectKey, demoProjectName)
	if err != nil {
		return nil, fmt.Errorf("ensure project: %w", err)
	}
	res := &Result{Project: project}

	for _, p := range demoProducts {
		p.ProjectID = project.ID
		saved, err := d.Products.Upsert(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
		res.Products = append(res.Products, *saved)
	}

	offers, err := d.Coupons.ListOffers(ctx, project.ID, "", now)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	existing := make(map[string]bool, len(offers))
	for _, o := range offers {
		existing[o.Name] = true
	}
	for _, c := range demoCoupons {
		res.Coupons++
		if existing[c.Name] {
			continue
		}
		_, err := d.Coupons.CreateTemplate(ctx, domain.Coupon{
			ProjectID:      project.ID,
			Name:           c.Name,
			AmountCents:    c.Amount,
			MinAmountCents: c.MinAmount,
			ExpiresAt:      now.Add(c.ValidFor),
			Status:         domain.CouponAvailable,
		})
		if err != nil {
			return nil, fmt.Errorf("create coupon %q: %w", c.Name, err)
		}
	}
	return res, nil
}
