package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"petshop-commerce/internal/config"
	"petshop-commerce/internal/db"
	"petshop-commerce/internal/httpserver"
	"petshop-commerce/internal/identity"
	"petshop-commerce/internal/logging"
	"petshop-commerce/internal/migrate"
	addressrepo "petshop-commerce/internal/repository/address"
	cartrepo "petshop-commerce/internal/repository/cart"
	categoryrepo "petshop-commerce/internal/repository/category"
	couponrepo "petshop-commerce/internal/repository/coupon"
	orderrepo "petshop-commerce/internal/repository/order"
	productrepo "petshop-commerce/internal/repository/product"
	projectrepo "petshop-commerce/internal/repository/project"
	addresssvc "petshop-commerce/internal/service/address"
	cartsvc "petshop-commerce/internal/service/cart"
	catalogsvc "petshop-commerce/internal/service/catalog"
	categorysvc "petshop-commerce/internal/service/category"
	couponsvc "petshop-commerce/internal/service/coupon"
	ordersvc "petshop-commerce/internal/service/order"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("api")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBPool())
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	version, err := migrate.Apply(ctx, dbpool)
	if err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	logger.Info("schema ready", zap.Uint("version", version))

	store := db.NewStore(dbpool, cfg.StoreTimeout)

	projectRepo := projectrepo.NewPostgres(store)
	productRepo := productrepo.NewPostgres(store, logger)
	catalogService := catalogsvc.New(productRepo)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(store))
	cartRepo := cartrepo.NewPostgres(store)
	cartService := cartsvc.New(cartRepo, catalogService)
	couponService := couponsvc.New(couponrepo.NewPostgres(store), logger)
	addressRepo := addressrepo.NewPostgres(store)
	addressService := addresssvc.New(addressRepo, store)
	orderService := ordersvc.New(ordersvc.Deps{
		Orders:    orderrepo.NewPostgres(store, logger),
		Addresses: addressService,
		Catalog:   catalogService,
		Coupons:   couponService,
		Carts:     cartRepo,
		Tx:        store,
		Logger:    logger,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProjectRepo:      projectRepo,
		Verifier:         identity.NewVerifier(cfg.JWTSecret),
		CatalogSvc:       catalogService,
		CategorySvc:      categoryService,
		CartSvc:          cartService,
		CouponSvc:        couponService,
		AddressSvc:       addressService,
		OrderSvc:         orderService,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
