package db

import (
	"context"
	"errors"
	"fmt"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so customer
// resolution can run standalone or inside the order creation transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CustomerRepo struct {
	ctx context.Context
	db  core.IDB
}

func NewCustomerRepo(ctx context.Context, db core.IDB) *CustomerRepo {
	return &CustomerRepo{
		ctx: ctx,
		db:  db,
	}
}

func (cr *CustomerRepo) FindByEmail(ctx context.Context, email string) (models.Customer, error) {
	if err := cr.db.IsAlive(); err != nil {
		return models.Customer{}, core.ErrDBConn
	}

	q := `
	SELECT
		id,
		email,
		address,
		postcode,
		created_at
	FROM
		customers
	WHERE
		email = $1
	`
	var customer models.Customer
	if err := cr.db.GetConn().QueryRow(ctx, q, email).Scan(
		&customer.ID,
		&customer.Email,
		&customer.Address,
		&customer.Postcode,
		&customer.CreatedAt,
	); err != nil {
		return models.Customer{}, err
	}

	return customer, nil
}

func (cr *CustomerRepo) ResolveOrCreate(ctx context.Context, email string) (models.Customer, error) {
	if err := cr.db.IsAlive(); err != nil {
		return models.Customer{}, core.ErrDBConn
	}

	id, err := resolveCustomerID(ctx, cr.db.GetConn(), email)
	if err != nil {
		return models.Customer{}, err
	}
	return models.Customer{ID: id, Email: email}, nil
}

// resolveCustomerID looks a customer up by exact email and lazily creates the
// row on first use. Email uniqueness is enforced by the unique index; when a
// concurrent session wins the insert race the conflict is resolved by a single
// re-read, after which the error surfaces.
func resolveCustomerID(ctx context.Context, q querier, email string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM customers WHERE email = $1`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up customer: %w", err)
	}

	err = q.QueryRow(ctx, `
		INSERT INTO customers (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, email).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}

	// Lost the race, the row exists now.
	err = q.QueryRow(ctx, `SELECT id FROM customers WHERE email = $1`, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, core.ErrCustomerConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to re-read customer: %w", err)
	}
	return id, nil
}
