package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"petshop-commerce/internal/config"
	"petshop-commerce/internal/db"
	"petshop-commerce/internal/importer"
	"petshop-commerce/internal/logging"
	"petshop-commerce/internal/repository/product"
	"petshop-commerce/internal/repository/project"

	"go.uber.org/zap"
)

func main() {
	var (
		filePath   string
		projectKey string
	)
	flag.StringVar(&filePath, "file", "", "Path to the product CSV")
	flag.StringVar(&projectKey, "project", "", "Project key to import into")
	flag.Parse()

	if filePath == "" || projectKey == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = logger.Named("importer")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBPool())
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	// Imports run without the per-operation bound; the file decides how long.
	store := db.NewStore(pool, 0)
	proj, err := project.NewPostgres(store).Ensure(ctx, projectKey, projectKey)
	if err != nil {
		logger.Fatal("ensure project", zap.String("project", projectKey), zap.Error(err))
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(store, logger), proj.ID)

	start := time.Now()
	var count int
	// One transaction so a bad row leaves the catalog untouched.
	err = store.InTx(ctx, func(ctx context.Context) error {
		var err error
		count, err = imp.Run(ctx)
		return err
	})
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("Imported %d products into project %s in %s\n", count, projectKey, time.Since(start).Truncate(time.Millisecond))
}
