package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petshop-commerce/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner runs fn as one atomic unit.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// Store is the injected store handle shared by repositories. A transaction
// opened with InTx travels in the context so several repositories can take
// part in the same unit of work.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewStore wraps pool. A zero timeout disables the per-operation bound.
func NewStore(pool *pgxpool.Pool, timeout time.Duration) *Store {
	return &Store{pool: pool, timeout: timeout}
}

// Conn returns the transaction bound to ctx, or the pool.
func (s *Store) Conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithTimeout bounds a single store interaction. Inside InTx the
// transaction deadline already applies, so ctx is returned unchanged.
func (s *Store) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// InTx begins a transaction, runs fn and commits when fn returns nil.
// Any error (or panic) rolls the transaction back. Nested calls reuse the
// outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return MapError(fmt.Errorf("begin tx: %w", err))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return MapError(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return MapError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// MapError converts driver errors into domain errors, leaving domain errors
// untouched.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrNotFound
	}
	switch pgCode(err) {
	case uniqueViolation:
		return &storeError{kind: domain.ErrAlreadyExists, msg: "duplicate", cause: err}
	case numericOutOfRange:
		return &storeError{kind: domain.ErrInvalidInput, msg: "value out of range", cause: err}
	}
	return err
}

// storeError keeps the driver error reachable through errors.As while its
// message stays free of SQL detail.
type storeError struct {
	kind  error
	msg   string
	cause error
}

func (e *storeError) Error() string {
	return e.kind.Error() + ": " + e.msg
}

func (e *storeError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

const (
	uniqueViolation   = "23505"
	numericOutOfRange = "22003"
)

// pgCode returns the SQLSTATE of a Postgres error in err's chain, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
