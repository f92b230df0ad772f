package cart

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

// AddLine inserts a selected line or merges the quantity into the existing
// line for the same product.
func (r *postgresRepo) AddLine(ctx context.Context, in AddLineInput) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
INSERT INTO cart_lines (project_id, account_id, product_id, quantity, selected)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT ON CONSTRAINT uq_cart_line DO UPDATE SET
    quantity = cart_lines.quantity + EXCLUDED.quantity,
    updated_at = now()
`
	_, err := r.store.Conn(ctx).Exec(ctx, q, in.ProjectID, in.AccountID, in.ProductID, in.Quantity)
	return db.MapError(err)
}

func (r *postgresRepo) Count(ctx context.Context, projectID, accountID string) (int, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT COALESCE(SUM(quantity), 0)
FROM cart_lines
WHERE project_id = $1 AND account_id = $2
`
	var n int
	if err := r.store.Conn(ctx).QueryRow(ctx, q, projectID, accountID).Scan(&n); err != nil {
		return 0, db.MapError(err)
	}
	return n, nil
}

func (r *postgresRepo) List(ctx context.Context, projectID, accountID string) ([]domain.CartItem, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT c.id, c.project_id::text, c.account_id, c.product_id, c.quantity, c.selected, c.created_at,
       p.name, p.price_cents, p.original_price_cents, p.category, p.image_url, p.stock, p.status
FROM cart_lines c
JOIN products p ON p.id = c.product_id
WHERE c.project_id = $1 AND c.account_id = $2
ORDER BY c.created_at DESC, c.id DESC
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID, accountID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	items := make([]domain.CartItem, 0)
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(
			&it.ID,
			&it.ProjectID,
			&it.AccountID,
			&it.ProductID,
			&it.Quantity,
			&it.Selected,
			&it.CreatedAt,
			&it.Name,
			&it.PriceCents,
			&it.OriginalPriceCents,
			&it.Category,
			&it.ImageURL,
			&it.Stock,
			&it.Status,
		); err != nil {
			return nil, db.MapError(err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return items, nil
}

func (r *postgresRepo) UpdateLine(ctx context.Context, projectID, accountID string, lineID int64, in UpdateLineInput) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
UPDATE cart_lines
SET quantity = COALESCE($4, quantity),
    selected = COALESCE($5, selected),
    updated_at = now()
WHERE project_id = $1 AND account_id = $2 AND id = $3
`
	cmd, err := r.store.Conn(ctx).Exec(ctx, q, projectID, accountID, lineID, in.Quantity, in.Selected)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveLine succeeds whether or not the line exists.
func (r *postgresRepo) RemoveLine(ctx context.Context, projectID, accountID string, lineID int64) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	_, err := r.store.Conn(ctx).Exec(ctx, `
DELETE FROM cart_lines
WHERE project_id = $1 AND account_id = $2 AND id = $3
`, projectID, accountID, lineID)
	return db.MapError(err)
}

func (r *postgresRepo) Clear(ctx context.Context, projectID, accountID string) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	_, err := r.store.Conn(ctx).Exec(ctx, `
DELETE FROM cart_lines
WHERE project_id = $1 AND account_id = $2
`, projectID, accountID)
	return db.MapError(err)
}

// RemoveProducts drops the account's lines for the given products. Used when
// an order consumes them.
func (r *postgresRepo) RemoveProducts(ctx context.Context, projectID, accountID string, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	_, err := r.store.Conn(ctx).Exec(ctx, `
DELETE FROM cart_lines
WHERE project_id = $1 AND account_id = $2 AND product_id = ANY($3)
`, projectID, accountID, productIDs)
	return db.MapError(err)
}
