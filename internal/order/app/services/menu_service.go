package services

import (
	"context"
	"errors"
	"fmt"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"
	"cafe-orders/internal/xpkg/logger"
)

// MenuService is the thin catalog layer: lookups feed the order snapshots,
// and writes are guarded by the owner's email.
type MenuService struct {
	ctx          context.Context
	menuRepo     core.IMenuRepo
	customerRepo core.ICustomerRepo
	mylog        logger.Logger
}

func NewMenuService(
	ctx context.Context,
	menuRepo core.IMenuRepo,
	customerRepo core.ICustomerRepo,
	mylogger logger.Logger,
) *MenuService {
	return &MenuService{
		ctx:          ctx,
		menuRepo:     menuRepo,
		customerRepo: customerRepo,
		mylog:        mylogger,
	}
}

func (ms *MenuService) FindAll(ctx context.Context) ([]models.Menu, error) {
	menus, err := ms.menuRepo.FindAll(ctx)
	if err != nil {
		ms.mylog.Action("menu_list_failed").Error("Failed to list menus", err)
		return nil, fmt.Errorf("cannot list menus: %w", err)
	}
	return menus, nil
}

func (ms *MenuService) FindByID(ctx context.Context, id int64) (models.Menu, error) {
	menu, err := ms.menuRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrMenuNotFound) {
			return models.Menu{}, err
		}
		ms.mylog.Action("menu_get_failed").Error("Failed to get menu", err, "menu_id", id)
		return models.Menu{}, fmt.Errorf("cannot get menu: %w", err)
	}
	return menu, nil
}

func (ms *MenuService) Create(ctx context.Context, req dto.CreateMenuRequest) (models.Menu, error) {
	mylog := ms.mylog.Action("create_menu")

	if err := ValidateEmail(req.Email); err != nil {
		return models.Menu{}, fmt.Errorf("invalid email: %w", err)
	}
	if req.Name == "" {
		return models.Menu{}, fmt.Errorf("invalid name: %w", core.ErrFieldIsEmpty)
	}
	if req.Price <= 0 {
		return models.Menu{}, fmt.Errorf("invalid price %d: %w", req.Price, core.ErrBadPrice)
	}

	// The owner is a customer like any other, created lazily on first use.
	if _, err := ms.customerRepo.ResolveOrCreate(ctx, req.Email); err != nil {
		mylog.Error("Failed to resolve menu owner", err)
		return models.Menu{}, fmt.Errorf("cannot resolve owner: %w", err)
	}

	menu, err := ms.menuRepo.Create(ctx, models.Menu{
		Name:       req.Name,
		Price:      req.Price,
		ImgURL:     req.ImgURL,
		Category:   req.Category,
		OwnerEmail: req.Email,
	})
	if err != nil {
		mylog.Error("Failed to save menu in db", err)
		return models.Menu{}, fmt.Errorf("cannot save menu: %w", err)
	}

	mylog.Info("Menu created successfully", "menu_id", menu.ID)
	return menu, nil
}

// Modify updates the live menu row if the email owns it. Snapshots already
// taken by past orders are unaffected.
func (ms *MenuService) Modify(ctx context.Context, id int64, req dto.ModifyMenuRequest) error {
	menu, err := ms.menuRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if menu.OwnerEmail != req.Email {
		return core.ErrNotOwner
	}

	menu.Name = req.Name
	menu.Price = req.Price
	menu.ImgURL = req.ImgURL

	if err := ms.menuRepo.Update(ctx, menu); err != nil {
		ms.mylog.Action("menu_update_failed").Error("Failed to update menu", err, "menu_id", id)
		return err
	}
	return nil
}

func (ms *MenuService) Delete(ctx context.Context, id int64, email string) error {
	menu, err := ms.menuRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if menu.OwnerEmail != email {
		return core.ErrNotOwner
	}

	if err := ms.menuRepo.Delete(ctx, id); err != nil {
		ms.mylog.Action("menu_delete_failed").Error("Failed to delete menu", err, "menu_id", id)
		return err
	}
	return nil
}
