package category

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

// ListByProject derives categories from the active catalog. Products without
// a category are not listed.
func (r *postgresRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Category, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT category, count(*)
FROM products
WHERE project_id = $1 AND status = 1 AND category <> ''
GROUP BY category
ORDER BY category ASC
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Name, &c.ProductCount); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}
