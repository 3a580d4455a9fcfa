package core

import (
	"context"

	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the slice of pgxpool.Pool the repositories use, so storage can
// be substituted in tests. pgx.Tx satisfies everything but Begin semantics.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type IDB interface {
	Close() error
	IsAlive() error
	GetConn() Querier
}

type ICustomerRepo interface {
	FindByEmail(ctx context.Context, email string) (models.Customer, error)
	ResolveOrCreate(ctx context.Context, email string) (models.Customer, error)
}

type IOrderRepo interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error)
	FindItemsByCustomerEmail(ctx context.Context, email string) ([]models.OrderItem, error)
}

type IMenuRepo interface {
	FindAll(ctx context.Context) ([]models.Menu, error)
	FindByID(ctx context.Context, id int64) (models.Menu, error)
	Create(ctx context.Context, menu models.Menu) (models.Menu, error)
	Update(ctx context.Context, menu models.Menu) error
	Delete(ctx context.Context, id int64) error
}
