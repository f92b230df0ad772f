package coupon

import (
	"context"
	"time"

	"petshop-commerce/internal/db"
	"petshop-commerce/internal/domain"
)

type postgresRepo struct {
	store *db.Store
}

func NewPostgres(store *db.Store) Repository {
	return &postgresRepo{store: store}
}

func (r *postgresRepo) CreateTemplate(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	status := c.Status
	if status == "" {
		status = domain.CouponAvailable
	}
	const q = `
INSERT INTO coupons (project_id, name, amount_cents, min_amount_cents, expires_at, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, project_id::text, name, amount_cents, min_amount_cents, expires_at, status
`
	var res domain.Coupon
	err := r.store.Conn(ctx).QueryRow(ctx, q, c.ProjectID, c.Name, c.AmountCents, c.MinAmountCents, c.ExpiresAt, status).Scan(
		&res.ID, &res.ProjectID, &res.Name, &res.AmountCents, &res.MinAmountCents, &res.ExpiresAt, &res.Status,
	)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &res, nil
}

// ListOffers returns claimable templates, largest discount first, flagged
// with whether accountID already holds one.
func (r *postgresRepo) ListOffers(ctx context.Context, projectID, accountID string, now time.Time) ([]domain.CouponOffer, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT c.id, c.project_id::text, c.name, c.amount_cents, c.min_amount_cents, c.expires_at, c.status,
       EXISTS (
           SELECT 1 FROM user_coupons uc
           WHERE uc.project_id = c.project_id AND uc.account_id = $2 AND uc.coupon_id = c.id
       )
FROM coupons c
WHERE c.project_id = $1 AND c.status = 'available' AND c.expires_at >= $3
ORDER BY c.amount_cents DESC, c.id ASC
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID, accountID, now)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	offers := make([]domain.CouponOffer, 0)
	for rows.Next() {
		var o domain.CouponOffer
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Name, &o.AmountCents, &o.MinAmountCents, &o.ExpiresAt, &o.Status, &o.Received); err != nil {
			return nil, db.MapError(err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return offers, nil
}

const heldColumns = `uc.id, uc.project_id::text, uc.account_id, uc.coupon_id, c.name, c.amount_cents,
       c.min_amount_cents, c.expires_at, uc.status, uc.received_at, uc.used_at`

func scanHeld(row interface{ Scan(...any) error }, uc *domain.UserCoupon) error {
	return row.Scan(&uc.ID, &uc.ProjectID, &uc.AccountID, &uc.CouponID, &uc.Name, &uc.AmountCents,
		&uc.MinAmountCents, &uc.ExpiresAt, &uc.Status, &uc.ReceivedAt, &uc.UsedAt)
}

// ListHeld returns every instrument of the account, newest first. Expiry
// filtering happens in the service.
func (r *postgresRepo) ListHeld(ctx context.Context, projectID, accountID string) ([]domain.UserCoupon, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + heldColumns + `
FROM user_coupons uc
JOIN coupons c ON c.id = uc.coupon_id
WHERE uc.project_id = $1 AND uc.account_id = $2
ORDER BY uc.received_at DESC, uc.id DESC
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID, accountID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	held := make([]domain.UserCoupon, 0)
	for rows.Next() {
		var uc domain.UserCoupon
		if err := scanHeld(rows, &uc); err != nil {
			return nil, db.MapError(err)
		}
		held = append(held, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return held, nil
}

func (r *postgresRepo) GetClaimable(ctx context.Context, projectID string, couponID int64, now time.Time) (*domain.Coupon, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
SELECT id, project_id::text, name, amount_cents, min_amount_cents, expires_at, status
FROM coupons
WHERE project_id = $1 AND id = $2 AND status = 'available' AND expires_at >= $3
`
	var c domain.Coupon
	err := r.store.Conn(ctx).QueryRow(ctx, q, projectID, couponID, now).Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.AmountCents, &c.MinAmountCents, &c.ExpiresAt, &c.Status,
	)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &c, nil
}

// Receive records that accountID holds couponID. A second claim of the same
// template violates uq_user_coupon and surfaces as ErrAlreadyExists.
func (r *postgresRepo) Receive(ctx context.Context, projectID, accountID string, couponID int64) (*domain.UserCoupon, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	var id int64
	err := r.store.Conn(ctx).QueryRow(ctx, `
INSERT INTO user_coupons (project_id, account_id, coupon_id, status)
VALUES ($1, $2, $3, 'available')
RETURNING id
`, projectID, accountID, couponID).Scan(&id)
	if err != nil {
		return nil, db.MapError(err)
	}
	return r.getHeld(ctx, projectID, accountID, id)
}

func (r *postgresRepo) GetHeld(ctx context.Context, projectID, accountID string, id int64) (*domain.UserCoupon, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	return r.getHeld(ctx, projectID, accountID, id)
}

func (r *postgresRepo) getHeld(ctx context.Context, projectID, accountID string, id int64) (*domain.UserCoupon, error) {
	q := `SELECT ` + heldColumns + `
FROM user_coupons uc
JOIN coupons c ON c.id = uc.coupon_id
WHERE uc.project_id = $1 AND uc.account_id = $2 AND uc.id = $3
`
	var uc domain.UserCoupon
	if err := scanHeld(r.store.Conn(ctx).QueryRow(ctx, q, projectID, accountID, id), &uc); err != nil {
		return nil, db.MapError(err)
	}
	return &uc, nil
}

// MarkUsed flips an available, unexpired instrument to used. It reports false
// when another caller got there first or the instrument no longer qualifies.
func (r *postgresRepo) MarkUsed(ctx context.Context, projectID, accountID string, id int64, orderID *int64, now time.Time) (bool, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
UPDATE user_coupons uc
SET status = 'used', used_at = $4, order_id = $5
FROM coupons c
WHERE c.id = uc.coupon_id
  AND uc.project_id = $1 AND uc.account_id = $2 AND uc.id = $3
  AND uc.status = 'available' AND c.expires_at >= $4
`
	cmd, err := r.store.Conn(ctx).Exec(ctx, q, projectID, accountID, id, now, orderID)
	if err != nil {
		return false, db.MapError(err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) AttachOrder(ctx context.Context, id, orderID int64) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	_, err := r.store.Conn(ctx).Exec(ctx, `UPDATE user_coupons SET order_id = $2 WHERE id = $1`, id, orderID)
	return db.MapError(err)
}
