package db

import (
	"context"
	"errors"
	"fmt"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
)

type MenuRepo struct {
	ctx context.Context
	db  core.IDB
}

func NewMenuRepo(ctx context.Context, db core.IDB) *MenuRepo {
	return &MenuRepo{
		ctx: ctx,
		db:  db,
	}
}

func (mr *MenuRepo) FindAll(ctx context.Context) ([]models.Menu, error) {
	if err := mr.db.IsAlive(); err != nil {
		return nil, core.ErrDBConn
	}

	q := `
	SELECT
		id,
		name,
		price,
		img_url,
		category,
		owner_email,
		created_at
	FROM
		menus
	ORDER BY id
	`
	rows, err := mr.db.GetConn().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var menu models.Menu
		err := rows.Scan(
			&menu.ID,
			&menu.Name,
			&menu.Price,
			&menu.ImgURL,
			&menu.Category,
			&menu.OwnerEmail,
			&menu.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return menus, nil
}

func (mr *MenuRepo) FindByID(ctx context.Context, id int64) (models.Menu, error) {
	if err := mr.db.IsAlive(); err != nil {
		return models.Menu{}, core.ErrDBConn
	}

	q := `
	SELECT
		id,
		name,
		price,
		img_url,
		category,
		owner_email,
		created_at
	FROM
		menus
	WHERE
		id = $1
	`
	var menu models.Menu
	if err := mr.db.GetConn().QueryRow(ctx, q, id).Scan(
		&menu.ID,
		&menu.Name,
		&menu.Price,
		&menu.ImgURL,
		&menu.Category,
		&menu.OwnerEmail,
		&menu.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Menu{}, fmt.Errorf("%w: %d", core.ErrMenuNotFound, id)
		}
		return models.Menu{}, err
	}

	return menu, nil
}

func (mr *MenuRepo) Create(ctx context.Context, menu models.Menu) (models.Menu, error) {
	if err := mr.db.IsAlive(); err != nil {
		return models.Menu{}, core.ErrDBConn
	}

	err := mr.db.GetConn().QueryRow(ctx, `
		INSERT INTO menus (
			name,
			price,
			img_url,
			category,
			owner_email
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		menu.Name,
		menu.Price,
		menu.ImgURL,
		menu.Category,
		menu.OwnerEmail,
	).Scan(&menu.ID, &menu.CreatedAt)
	if err != nil {
		return models.Menu{}, fmt.Errorf("failed to insert menu: %w", err)
	}

	return menu, nil
}

// Update rewrites the live menu row. Snapshots already taken by order items
// are untouched by design: they live on the item rows.
func (mr *MenuRepo) Update(ctx context.Context, menu models.Menu) error {
	if err := mr.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	tag, err := mr.db.GetConn().Exec(ctx, `
		UPDATE menus
		SET name = $1, price = $2, img_url = $3
		WHERE id = $4
	`, menu.Name, menu.Price, menu.ImgURL, menu.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", core.ErrMenuNotFound, menu.ID)
	}

	return nil
}

func (mr *MenuRepo) Delete(ctx context.Context, id int64) error {
	if err := mr.db.IsAlive(); err != nil {
		return core.ErrDBConn
	}

	tag, err := mr.db.GetConn().Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", core.ErrMenuNotFound, id)
	}

	return nil
}
