package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
)

type OrderRepo struct {
	ctx context.Context
	db  core.IDB
}

func NewOrderRepo(ctx context.Context, db core.IDB) *OrderRepo {
	return &OrderRepo{
		ctx: ctx,
		db:  db,
	}
}

// Create persists the customer (on first order), the order row and one row
// per item inside a single transaction. Item rows snapshot the menu's name
// and price as they are at this moment; a missing menu id rolls the whole
// thing back.
func (or *OrderRepo) Create(ctx context.Context, req dto.CreateOrderRequest) (models.Order, error) {
	if err := or.db.IsAlive(); err != nil {
		return models.Order{}, core.ErrDBConn
	}

	tx, err := or.db.GetConn().Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Ensure the transaction is rolled back if an error occurs

	customerID, err := resolveCustomerID(ctx, tx, req.Email)
	if err != nil {
		return models.Order{}, err
	}

	newOrder := models.Order{
		CustomerID: customerID,
		Address:    req.Address,
		Postcode:   req.Postcode,
		CreatedAt:  time.Now().UTC(),
		ItemCount:  len(req.Items),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			customer_id,
			address,
			postcode,
			created_at
		)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		newOrder.CustomerID,
		newOrder.Address,
		newOrder.Postcode,
		newOrder.CreatedAt,
	).Scan(&newOrder.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	// Resolve each menu and copy its current name/price onto the item row.
	for _, item := range req.Items {
		var name string
		var price int
		err := tx.QueryRow(ctx, `SELECT name, price FROM menus WHERE id = $1`, item.MenuID).Scan(&name, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.Order{}, fmt.Errorf("%w: %d", core.ErrMenuNotFound, item.MenuID)
			}
			return models.Order{}, fmt.Errorf("failed to resolve menu %d: %w", item.MenuID, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (
				order_id,
				menu_id,
				name_snapshot,
				price_snapshot,
				count
			)
			VALUES ($1, $2, $3, $4, $5)
		`, newOrder.ID, item.MenuID, name, price, item.Count)
		if err != nil {
			return models.Order{}, fmt.Errorf("failed to insert item: %w", err)
		}

		newOrder.TotalQuantity += item.Count
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newOrder, nil
}

// FindItemsByCustomerEmail returns every item of every order owned by the
// email, joined with the owning order, in insertion order. Snapshots are read
// from the item rows, never from the live menus.
func (or *OrderRepo) FindItemsByCustomerEmail(ctx context.Context, email string) ([]models.OrderItem, error) {
	if err := or.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
	SELECT
		oi.id,
		oi.order_id,
		oi.menu_id,
		oi.name_snapshot,
		oi.price_snapshot,
		oi.count,
		o.address,
		o.postcode
	FROM
		order_items oi
	JOIN orders o ON oi.order_id = o.id
	JOIN customers c ON o.customer_id = c.id
	WHERE
		c.email = $1
	ORDER BY oi.id
	`
	rows, err := or.db.GetConn().Query(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuID,
			&item.NameSnapshot,
			&item.PriceSnapshot,
			&item.Count,
			&item.Address,
			&item.Postcode,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
