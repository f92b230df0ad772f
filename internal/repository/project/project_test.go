package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/dbtest"
	"petshop-commerce/internal/domain"
)

func TestPostgres_EnsureAndGet(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(ctx, t)
	repo := NewPostgres(db.NewStore(pool, time.Second))

	created, err := repo.Ensure(ctx, "petshop", "Pet Shop")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	again, err := repo.Ensure(ctx, "petshop", "Pet Shop Renamed")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if again.ID != created.ID || again.Name != "Pet Shop Renamed" {
		t.Fatalf("unexpected project %+v", again)
	}

	got, err := repo.GetByKey(ctx, "petshop")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("fetched mismatch %+v", got)
	}

	if _, err := repo.GetByKey(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
