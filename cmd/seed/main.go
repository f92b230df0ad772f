package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"petshop-commerce/internal/config"
	"petshop-commerce/internal/db"
	"petshop-commerce/internal/identity"
	"petshop-commerce/internal/logging"
	"petshop-commerce/internal/migrate"
	couponrepo "petshop-commerce/internal/repository/coupon"
	productrepo "petshop-commerce/internal/repository/product"
	projectrepo "petshop-commerce/internal/repository/project"
	"petshop-commerce/internal/seed"

	"go.uber.org/zap"
)

func main() {
	account := flag.String("account", "demo-user", "account id to mint a development token for")
	ttl := flag.Duration("ttl", 24*time.Hour, "development token lifetime")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBPool())
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	store := db.NewStore(pool, cfg.StoreTimeout)
	var res *seed.Result
	err = store.InTx(ctx, func(ctx context.Context) error {
		var err error
		res, err = seed.Apply(ctx, seed.Deps{
			Projects: projectrepo.NewPostgres(store),
			Products: productrepo.NewPostgres(store, logger),
			Coupons:  couponrepo.NewPostgres(store),
		}, time.Now())
		return err
	})
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied",
		zap.String("project", res.Project.Key),
		zap.Int("products", len(res.Products)),
		zap.Int("coupons", res.Coupons),
	)

	token, err := identity.NewVerifier(cfg.JWTSecret).Issue(identity.Principal{
		AccountID:  *account,
		ProjectKey: res.Project.Key,
	}, *ttl)
	if err != nil {
		logger.Fatal("issue token", zap.Error(err))
	}
	fmt.Printf("Authorization: Bearer %s\n", token)
}
