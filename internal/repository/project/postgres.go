package project

import (
	"context"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
)

type postgresRepo struct {
	store *db.Store
}

func NewPostgres(store *db.Store) Repository {
	return &postgresRepo{store: store}
}

func (r *postgresRepo) GetByKey(ctx context.Context, key string) (*domain.Project, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT id::text, key, name, created_at
FROM projects
WHERE key = $1
`
	var p domain.Project
	err := r.store.Conn(ctx).QueryRow(ctx, q, key).Scan(&p.ID, &p.Key, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &p, nil
}

// Ensure returns the project with key, creating it when missing.
func (r *postgresRepo) Ensure(ctx context.Context, key, name string) (*domain.Project, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
INSERT INTO projects (key, name)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text, key, name, created_at
`
	var p domain.Project
	if err := r.store.Conn(ctx).QueryRow(ctx, q, key, name).Scan(&p.ID, &p.Key, &p.Name, &p.CreatedAt); err != nil {
		return nil, db.MapError(err)
	}
	return &p, nil
}
