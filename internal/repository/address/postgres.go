package address

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

const addressColumns = `id, project_id::text, account_id, name, phone, province, city, district, detail, is_default, status, created_at`

func scanAddress(row interface{ Scan(...any) error }, a *domain.Address) error {
	return row.Scan(&a.ID, &a.ProjectID, &a.AccountID, &a.Name, &a.Phone, &a.Province, &a.City,
		&a.District, &a.Detail, &a.IsDefault, &a.Status, &a.CreatedAt)
}

func (r *postgresRepo) List(ctx context.Context, projectID, accountID string) ([]domain.Address, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + addressColumns + `
FROM addresses
WHERE project_id = $1 AND account_id = $2 AND status = 1
ORDER BY is_default DESC, created_at DESC, id DESC
`
	rows, err := r.store.Conn(ctx).Query(ctx, q, projectID, accountID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	out := make([]domain.Address, 0)
	for rows.Next() {
		var a domain.Address
		if err := scanAddress(rows, &a); err != nil {
			return nil, db.MapError(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

// Get returns an active address owned by accountID.
func (r *postgresRepo) Get(ctx context.Context, projectID, accountID string, id int64) (*domain.Address, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `SELECT ` + addressColumns + `
FROM addresses
WHERE project_id = $1 AND account_id = $2 AND id = $3 AND status = 1
`
	var a domain.Address
	if err := scanAddress(r.store.Conn(ctx).QueryRow(ctx, q, projectID, accountID, id), &a); err != nil {
		return nil, db.MapError(err)
	}
	return &a, nil
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	q := `
INSERT INTO addresses (project_id, account_id, name, phone, province, city, district, detail, is_default, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
RETURNING ` + addressColumns
	var res domain.Address
	err := scanAddress(r.store.Conn(ctx).QueryRow(ctx, q,
		a.ProjectID, a.AccountID, a.Name, a.Phone, a.Province, a.City, a.District, a.Detail, a.IsDefault,
	), &res)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &res, nil
}

func (r *postgresRepo) Update(ctx context.Context, projectID, accountID string, id int64, p Patch) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `
UPDATE addresses
SET name = COALESCE($4, name),
    phone = COALESCE($5, phone),
    province = COALESCE($6, province),
    city = COALESCE($7, city),
    district = COALESCE($8, district),
    detail = COALESCE($9, detail),
    updated_at = now()
WHERE project_id = $1 AND account_id = $2 AND id = $3 AND status = 1
`
	cmd, err := r.store.Conn(ctx).Exec(ctx, q, projectID, accountID, id,
		p.Name, p.Phone, p.Province, p.City, p.District, p.Detail)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockAccount takes row locks on every address of the account, in id order,
// so concurrent default changes serialize. Must run inside a transaction.
func (r *postgresRepo) LockAccount(ctx context.Context, projectID, accountID string) error {
	rows, err := r.store.Conn(ctx).Query(ctx, `
SELECT id FROM addresses
WHERE project_id = $1 AND account_id = $2
ORDER BY id
FOR UPDATE
`, projectID, accountID)
	if err != nil {
		return db.MapError(err)
	}
	rows.Close()
	return db.MapError(rows.Err())
}

func (r *postgresRepo) ClearDefaults(ctx context.Context, projectID, accountID string) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	_, err := r.store.Conn(ctx).Exec(ctx, `
UPDATE addresses
SET is_default = FALSE, updated_at = now()
WHERE project_id = $1 AND account_id = $2 AND is_default
`, projectID, accountID)
	return db.MapError(err)
}

func (r *postgresRepo) MarkDefault(ctx context.Context, projectID, accountID string, id int64) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	cmd, err := r.store.Conn(ctx).Exec(ctx, `
UPDATE addresses
SET is_default = TRUE, updated_at = now()
WHERE project_id = $1 AND account_id = $2 AND id = $3 AND status = 1
`, projectID, accountID, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Remove soft-deletes the address and drops its default flag.
func (r *postgresRepo) Remove(ctx context.Context, projectID, accountID string, id int64) error {
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	cmd, err := r.store.Conn(ctx).Exec(ctx, `
UPDATE addresses
SET status = 0, is_default = FALSE, updated_at = now()
WHERE project_id = $1 AND account_id = $2 AND id = $3 AND status = 1
`, projectID, accountID, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
