package product

import (
	"context"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/logging"

	"go.uber.org/zap"
)

type postgresRepo struct {
	store  *db.Store
	logger *zap.Logger
}

func NewPostgres(store *db.Store, logger *zap.Logger) Repository {
	return &postgresRepo{store: store, logger: logging.OrNop(logger).Named("product_repo")}
}

const productColumns = `id, project_id::text, key, sku, name, spec, category, COALESCE(description, ''),
       price_cents, original_price_cents, image_url, stock, status, created_at`

func scanProduct(row interface{ Scan(...any) error }, p *domain.Product) error {
	return row.Scan(&p.ID, &p.ProjectID, &p.Key, &p.SKU, &p.Name, &p.Spec, &p.Category, &p.Description,
		&p.PriceCents, &p.OriginalPriceCents, &p.ImageURL, &p.Stock, &p.Status, &p.CreatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, projectID string, id int64) (*domain.Product, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + productColumns + `
FROM products
WHERE project_id = $1 AND id = $2
`
	var p domain.Product
	if err := scanProduct(r.store.Conn(ctx).QueryRow(ctx, q, projectID, id), &p); err != nil {
		err = db.MapError(err)
		r.logger.Debug("get product failed", zap.String("project_id", projectID), zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// GetMany loads products by id. Missing ids are absent from the result.
func (r *postgresRepo) GetMany(ctx context.Context, projectID string, ids []int64) (map[int64]domain.Product, error) {
	out := make(map[int64]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + productColumns + `
FROM products
WHERE project_id = $1 AND id = ANY($2)
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID, ids)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, db.MapError(err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

var listOrder = map[string]string{
	SortNewest:    "created_at DESC, id DESC",
	SortPriceAsc:  "price_cents ASC, id ASC",
	SortPriceDesc: "price_cents DESC, id DESC",
}

// List returns one page of active products plus the total match count.
// An empty category matches every category.
func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Product, int, error) {
	order, ok := listOrder[f.Sort]
	if !ok {
		order = listOrder[SortNewest]
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	conn := r.store.Conn(ctx)

	const where = `
FROM products
WHERE project_id = $1 AND status = 1 AND ($2 = '' OR category = $2)`

	var total int
	if err := conn.QueryRow(ctx, `SELECT count(*)`+where, f.ProjectID, f.Category).Scan(&total); err != nil {
		return nil, 0, db.MapError(err)
	}

	q := `SELECT ` + productColumns + where + `
ORDER BY ` + order + `
LIMIT $3 OFFSET $4`
	rows, err := conn.Query(ctx, q, f.ProjectID, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, db.MapError(err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, f.Limit)
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, db.MapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.MapError(err)
	}
	return out, total, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `
INSERT INTO products (project_id, key, sku, name, spec, category, description, price_cents, original_price_cents, image_url, stock, status)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
ON CONFLICT (project_id, key) DO UPDATE SET
    sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    spec = EXCLUDED.spec,
    category = EXCLUDED.category,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    original_price_cents = EXCLUDED.original_price_cents,
    image_url = EXCLUDED.image_url,
    stock = EXCLUDED.stock,
    status = EXCLUDED.status
RETURNING ` + productColumns
	var res domain.Product
	err := scanProduct(r.store.Conn(ctx).QueryRow(ctx, q,
		product.ProjectID,
		product.Key,
		product.SKU,
		product.Name,
		product.Spec,
		product.Category,
		product.Description,
		product.PriceCents,
		product.OriginalPriceCents,
		product.ImageURL,
		product.Stock,
		product.Status,
	), &res)
	if err != nil {
		r.logger.Warn("upsert product failed", zap.String("key", product.Key), zap.String("project_id", product.ProjectID), zap.Error(err))
		return nil, db.MapError(err)
	}
	r.logger.Debug("upserted product", zap.String("key", res.Key), zap.Int64("id", res.ID))
	return &res, nil
}
