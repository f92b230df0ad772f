package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"petshop-commerce/internal/domain"
	addresssvc "petshop-commerce/internal/service/address"
	cartsvc "petshop-commerce/internal/service/cart"
	catalogsvc "petshop-commerce/internal/service/catalog"
	ordersvc "petshop-commerce/internal/service/order"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// access declares what a route requires before its handler runs.
type access int

const (
	public access = iota
	account
)

type route struct {
	method  string
	path    string
	access  access
	handler gin.HandlerFunc
}

type catalogService interface {
	Get(ctx context.Context, projectID string, id int64) (*domain.Product, error)
	List(ctx context.Context, projectID string, q catalogsvc.ListQuery) (*catalogsvc.Page, error)
}

type categoryService interface {
	List(ctx context.Context, projectID string) ([]domain.Category, error)
}

type cartService interface {
	AddLine(ctx context.Context, projectID, accountID string, in cartsvc.AddInput) (int, error)
	UpdateLine(ctx context.Context, projectID, accountID string, lineID int64, in cartsvc.UpdateInput) error
	RemoveLine(ctx context.Context, projectID, accountID string, lineID int64) error
	Clear(ctx context.Context, projectID, accountID string) error
	List(ctx context.Context, projectID, accountID string) ([]domain.CartItem, error)
	Count(ctx context.Context, projectID, accountID string) (int, error)
}

type couponService interface {
	ListAvailable(ctx context.Context, projectID, accountID string) ([]domain.CouponOffer, error)
	ListMine(ctx context.Context, projectID, accountID, status string) ([]domain.UserCoupon, error)
	Receive(ctx context.Context, projectID, accountID string, couponID int64) (*domain.UserCoupon, error)
	Use(ctx context.Context, projectID, accountID string, instrumentID int64) (int64, error)
}

type addressService interface {
	List(ctx context.Context, projectID, accountID string) ([]domain.Address, error)
	Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Address, error)
	Add(ctx context.Context, projectID, accountID string, in addresssvc.Input) (*domain.Address, error)
	Update(ctx context.Context, projectID, accountID string, id int64, in addresssvc.Input) (*domain.Address, error)
	SetDefault(ctx context.Context, projectID, accountID string, id int64) error
	Remove(ctx context.Context, projectID, accountID string, id int64) error
}

type orderService interface {
	Create(ctx context.Context, projectID, accountID string, in ordersvc.CreateInput) (*domain.Order, error)
	Pay(ctx context.Context, projectID, accountID string, orderID int64, method string) (*domain.Order, error)
	Cancel(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error)
	Confirm(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error)
	List(ctx context.Context, projectID, accountID string, f ordersvc.Filter) (*ordersvc.Page, error)
	Detail(ctx context.Context, projectID, accountID string, orderID int64) (*domain.Order, error)
}

type Deps struct {
	ProjectRepo      projectLookup
	Verifier         tokenVerifier
	CatalogSvc       catalogService
	CategorySvc      categoryService
	CartSvc          cartService
	CouponSvc        couponService
	AddressSvc       addressService
	OrderSvc         orderService
	CORSAllowOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.ProjectRepo == nil:
		return errors.New("project repository required")
	case d.Verifier == nil:
		return errors.New("token verifier required")
	case d.CatalogSvc == nil, d.CategorySvc == nil, d.CartSvc == nil, d.CouponSvc == nil, d.AddressSvc == nil, d.OrderSvc == nil:
		return errors.New("all commerce services required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	useJSONFieldNames()
	router := gin.New()
	router.Use(requestContext(logger), accessLog(), gin.CustomRecovery(recoverPanic), cors.New(corsConfig(deps.CORSAllowOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{
		catalog:    deps.CatalogSvc,
		categories: deps.CategorySvc,
		cart:       deps.CartSvc,
		coupons:    deps.CouponSvc,
		addresses:  deps.AddressSvc,
		orders:     deps.OrderSvc,
	}

	project := router.Group("/:projectKey", projectMiddleware(deps.ProjectRepo))
	requireIdentity := identityMiddleware(deps.Verifier)
	for _, r := range h.routes() {
		chain := []gin.HandlerFunc{}
		if r.access == account {
			chain = append(chain, requireIdentity)
		}
		project.Handle(r.method, r.path, append(chain, r.handler)...)
	}

	router.NoRoute(func(c *gin.Context) {
		writeFailure(c, http.StatusNotFound, codeNotFound, "route not found")
	})
	return router, nil
}

type handlers struct {
	catalog    catalogService
	categories categoryService
	cart       cartService
	coupons    couponService
	addresses  addressService
	orders     orderService
}

func (h *handlers) routes() []route {
	return []route{
		{http.MethodGet, "/products", public, h.listProducts},
		{http.MethodGet, "/products/:id", public, h.getProduct},
		{http.MethodGet, "/categories", public, h.listCategories},

		{http.MethodGet, "/cart", account, h.listCart},
		{http.MethodGet, "/cart/count", account, h.countCart},
		{http.MethodPost, "/cart", account, h.addToCart},
		{http.MethodPost, "/cart/add", account, h.addToCart},
		{http.MethodPost, "/cart/clear", account, h.clearCart},
		{http.MethodPut, "/cart/:id", account, h.updateCartLine},
		{http.MethodDelete, "/cart/:id", account, h.removeCartLine},

		{http.MethodGet, "/orders", account, h.listOrders},
		{http.MethodGet, "/orders/:id", account, h.orderDetail},
		{http.MethodPost, "/orders", account, h.createOrder},
		{http.MethodPost, "/orders/pay", account, h.payOrder},
		{http.MethodPost, "/orders/cancel", account, h.cancelOrder},
		{http.MethodPost, "/orders/confirm", account, h.confirmOrder},

		{http.MethodGet, "/addresses", account, h.listAddresses},
		{http.MethodGet, "/addresses/:id", account, h.getAddress},
		{http.MethodPost, "/addresses", account, h.addAddress},
		{http.MethodPut, "/addresses/:id", account, h.updateAddress},
		{http.MethodPut, "/addresses/:id/default", account, h.setDefaultAddress},
		{http.MethodDelete, "/addresses/:id", account, h.removeAddress},

		{http.MethodGet, "/coupons", account, h.listMyCoupons},
		{http.MethodGet, "/coupons/my", account, h.listMyCoupons},
		{http.MethodGet, "/coupons/available", account, h.listAvailableCoupons},
		{http.MethodPost, "/coupons/:id/receive", account, h.receiveCoupon},
		{http.MethodPost, "/coupons/:id/use", account, h.useCoupon},
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
