package db

import (
	"context"
	"fmt"
	"time"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/xpkg/config"
	"cafe-orders/internal/xpkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// schema is applied on every connect. Order items keep a name/price snapshot
// and reference menus without a foreign key on purpose: an item must stay
// valid after its menu is modified or deleted.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL,
	address    TEXT NOT NULL DEFAULT '',
	postcode   INT  NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS customers_email_key ON customers (email);

CREATE TABLE IF NOT EXISTS menus (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	price       INT  NOT NULL,
	img_url     TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	owner_email TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id          BIGSERIAL PRIMARY KEY,
	customer_id BIGINT NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
	address     TEXT NOT NULL,
	postcode    INT  NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	id             BIGSERIAL PRIMARY KEY,
	order_id       BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	menu_id        BIGINT NOT NULL,
	name_snapshot  TEXT NOT NULL,
	price_snapshot INT  NOT NULL,
	count          INT  NOT NULL CHECK (count >= 1)
);
`

type DB struct {
	pool *pgxpool.Pool
	ctx  context.Context
}

// Start connects a pgx pool, verifies it and makes sure the schema exists.
func Start(ctx context.Context, dbCfg *config.Postgres, mylog logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Database,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	mylog.Action("db_schema_ready").Info("Database schema is in place")

	return &DB{pool: pool, ctx: ctx}, nil
}

func (db *DB) GetConn() core.Querier {
	return db.pool
}

func (db *DB) IsAlive() error {
	ctx, cancel := context.WithTimeout(db.ctx, pingTimeout)
	defer cancel()
	return db.pool.Ping(ctx)
}

func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
