package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
	"petshop-commerce/internal/logging"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type postgresRepo struct {
	store  *db.Store
	logger *zap.Logger
}

func NewPostgres(store *db.Store, logger *zap.Logger) Repository {
	return &postgresRepo{store: store, logger: logging.OrNop(logger).Named("order_repo")}
}

const orderColumns = `id, project_id::text, order_number, account_id, total_amount_cents, discount_cents, coupon_id,
       status, address_snapshot, payment_method, payment_status, remark, created_at, updated_at, paid_at`

func scanOrder(row interface{ Scan(...any) error }, o *domain.Order) error {
	var status string
	if err := row.Scan(&o.ID, &o.ProjectID, &o.OrderNumber, &o.AccountID, &o.TotalCents, &o.DiscountCents, &o.CouponID,
		&status, &o.Address, &o.PaymentMethod, &o.PaymentStatus, &o.Remark, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt); err != nil {
		return err
	}
	o.Status = domain.OrderStatus(status)
	return nil
}

// Insert writes the order header and fills in ID and timestamps. A taken
// order number is reported as ErrAlreadyExists without aborting the
// surrounding transaction.
func (r *postgresRepo) Insert(ctx context.Context, o *domain.Order) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
INSERT INTO orders (project_id, order_number, account_id, total_amount_cents, discount_cents, coupon_id,
                    status, address_snapshot, payment_status, remark)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
ON CONFLICT ON CONSTRAINT uq_orders_order_number DO NOTHING
RETURNING id, created_at, updated_at
`
	err := r.store.Conn(ctx).QueryRow(ctx, q,
		o.ProjectID, o.OrderNumber, o.AccountID, o.TotalCents, o.DiscountCents, o.CouponID,
		string(o.Status), o.Address, o.Remark,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Info("order number collision", zap.String("order_number", o.OrderNumber))
		return fmt.Errorf("%w: order number %s", domain.ErrAlreadyExists, o.OrderNumber)
	}
	return db.MapError(err)
}

func (r *postgresRepo) InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
INSERT INTO order_items (order_id, product_id, product_name, spec, price_cents, quantity, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	conn := r.store.Conn(ctx)
	for i := range items {
		it := &items[i]
		if err := conn.QueryRow(ctx, q, orderID, it.ProductID, it.ProductName, it.Spec, it.PriceCents, it.Quantity, it.ImageURL).Scan(&it.ID); err != nil {
			return db.MapError(err)
		}
		it.OrderID = orderID
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Order, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + orderColumns + `
FROM orders
WHERE project_id = $1 AND account_id = $2 AND id = $3
`
	var o domain.Order
	if err := scanOrder(r.store.Conn(ctx).QueryRow(ctx, q, projectID, accountID, id), &o); err != nil {
		return nil, db.MapError(err)
	}
	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

// GetForUpdate locks the order row for the rest of the surrounding
// transaction. Items are not loaded.
func (r *postgresRepo) GetForUpdate(ctx context.Context, projectID, accountID string, id int64) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE project_id = $1 AND account_id = $2 AND id = $3
FOR UPDATE
`
	var o domain.Order
	if err := scanOrder(r.store.Conn(ctx).QueryRow(ctx, q, projectID, accountID, id), &o); err != nil {
		return nil, db.MapError(err)
	}
	return &o, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	cmd, err := r.store.Conn(ctx).Exec(ctx, `
UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
`, id, string(status))
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id int64, method string, paidAt time.Time) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	cmd, err := r.store.Conn(ctx).Exec(ctx, `
UPDATE orders
SET status = 'paid', payment_method = $2, payment_status = 1, paid_at = $3, updated_at = now()
WHERE id = $1
`, id, method, paidAt)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns one page of the account's orders, newest first, with items,
// plus the total number of matching orders.
func (r *postgresRepo) List(ctx context.Context, projectID, accountID string, f ListFilter) ([]domain.Order, int, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	conn := r.store.Conn(ctx)
	var status *string
	if f.Status != "" {
		s := string(f.Status)
		status = &s
	}

	var total int
	if err := conn.QueryRow(ctx, `
SELECT COUNT(*)
FROM orders
WHERE project_id = $1 AND account_id = $2 AND ($3::text IS NULL OR status = $3)
`, projectID, accountID, status).Scan(&total); err != nil {
		return nil, 0, db.MapError(err)
	}

	q := `SELECT ` + orderColumns + `
FROM orders
WHERE project_id = $1 AND account_id = $2 AND ($3::text IS NULL OR status = $3)
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`
	rows, err := conn.Query(ctx, q, projectID, accountID, status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, db.MapError(err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, db.MapError(err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, db.MapError(err)
	}
	rows.Close()

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	out := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.store.Conn(ctx).Query(ctx, `
SELECT id, order_id, product_id, product_name, spec, price_cents, quantity, image_url
FROM order_items
WHERE order_id = ANY($1)
ORDER BY order_id, id
`, orderIDs)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Spec, &it.PriceCents, &it.Quantity, &it.ImageURL); err != nil {
			return nil, db.MapError(err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}
