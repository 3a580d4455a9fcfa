package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"
	"cafe-orders/internal/xpkg/logger"
)

type OrderService struct {
	ctx           context.Context
	orderRepo     core.IOrderRepo
	messageBroker core.IBroker
	maxQuantity   int
	mylog         logger.Logger
}

func NewOrderService(
	ctx context.Context,
	orderRepo core.IOrderRepo,
	messageBroker core.IBroker,
	maxQuantity int,
	mylogger logger.Logger,
) *OrderService {
	if maxQuantity <= 0 {
		maxQuantity = core.DefaultMaxQuantity
	}
	return &OrderService{
		ctx:           ctx,
		orderRepo:     orderRepo,
		messageBroker: messageBroker,
		maxQuantity:   maxQuantity,
		mylog:         mylogger,
	}
}

// Create runs the whole checkout as one unit: the repository resolves the
// customer, stores the order and snapshots every item inside a single
// transaction. On success an order.created event is published; a broker
// failure is logged but the stored order stands.
func (os *OrderService) Create(ctx context.Context, order dto.CreateOrderRequest) (models.Order, error) {
	mylog := os.mylog.Action("create_order")
	mylog.Info("Preparing order for DB insert")

	newOrder, err := os.orderRepo.Create(ctx, order)
	if err != nil {
		if errors.Is(err, core.ErrDBConn) {
			mylog.Error("Failed to connect to db", err)
			return models.Order{}, fmt.Errorf("cannot connect to db: %w", err)
		}
		if errors.Is(err, core.ErrMenuNotFound) {
			mylog.Warn("Order references a missing menu", "error", err.Error())
			return models.Order{}, err
		}
		if errors.Is(err, core.ErrCustomerConflict) {
			mylog.Error("Customer resolution conflict", err)
			return models.Order{}, err
		}
		mylog.Error("Failed to save order record in db", err)
		return models.Order{}, fmt.Errorf("cannot save order in db: %w", err)
	}

	msg := dto.OrderCreatedMessage{
		OrderID:       newOrder.ID,
		Email:         order.Email,
		ItemCount:     newOrder.ItemCount,
		TotalQuantity: newOrder.TotalQuantity,
		CreatedAt:     newOrder.CreatedAt,
	}
	if err := os.messageBroker.PushMessage(os.ctx, msg); err != nil {
		// The order is already committed, the event is advisory.
		mylog.Error("Failed to publish order.created", err, "order_id", newOrder.ID)
	}

	mylog.Info("Order created successfully", "order_id", newOrder.ID)
	return newOrder, nil
}

// GetHistory returns every order the email ever placed, grouped per order.
// Items stay in the order storage returned them; orders appear in first-seen
// order. An unknown email yields an empty list, not an error.
func (os *OrderService) GetHistory(ctx context.Context, email string) (dto.HistoryResponse, error) {
	mylog := os.mylog.Action("get_history")

	items, err := os.orderRepo.FindItemsByCustomerEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrDBConn) {
			mylog.Error("Failed to connect to db", err)
			return dto.HistoryResponse{}, err
		}
		mylog.Error("Failed to get order history", err)
		return dto.HistoryResponse{}, fmt.Errorf("cannot get order history: %w", err)
	}

	summaries := []dto.OrderSummary{}
	seen := map[int64]int{}
	for _, item := range items {
		i, ok := seen[item.OrderID]
		if !ok {
			summaries = append(summaries, dto.OrderSummary{
				Address:  item.Address,
				Postcode: item.Postcode,
			})
			i = len(summaries) - 1
			seen[item.OrderID] = i
		}
		summaries[i].Items = append(summaries[i].Items, dto.HistoryItem{
			MenuName:  item.NameSnapshot,
			MenuPrice: item.PriceSnapshot,
			Count:     item.Count,
		})
	}

	return dto.HistoryResponse{
		Email:  email,
		Orders: summaries,
	}, nil
}

// ValidateOrder validates an order request against predefined rules.
func (os *OrderService) ValidateOrder(order dto.CreateOrderRequest) error {
	os.mylog.Action("validation_started").Info("Validating order request")

	if err := ValidateEmail(order.Email); err != nil {
		return fmt.Errorf("invalid email: %v", err)
	}

	if err := os.validateAddress(order.Address); err != nil {
		return fmt.Errorf("invalid address: %v", err)
	}

	if err := os.validateOrderItems(order.Items); err != nil {
		return fmt.Errorf("invalid order items: %v", err)
	}

	os.mylog.Action("validation_completed").Info("Order successfully validated")
	return nil
}

// ValidateEmail checks that the string is a plausible bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return core.ErrFieldIsEmpty
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %s", core.ErrInvalidEmail, email)
	}

	return nil
}

func (os *OrderService) validateAddress(address string) error {
	if address == "" {
		return core.ErrFieldIsEmpty
	}

	addressLen := len(address)
	if addressLen < core.MinAddressLen || addressLen > core.MaxAddressLen {
		return fmt.Errorf("address length: %d, must be in range [%d, %d]", addressLen, core.MinAddressLen, core.MaxAddressLen)
	}

	return nil
}

func (os *OrderService) validateOrderItems(items []dto.OrderItemRequest) error {
	if len(items) == 0 {
		return core.ErrEmptyItems
	}

	total := 0
	for i, item := range items {
		if item.Count < core.MinItemCount {
			return fmt.Errorf("item %d: count: %d: %w", i+1, item.Count, core.ErrBadCount)
		}
		// A single count past the ceiling fails on its own; this also keeps
		// the running total far from integer overflow.
		if item.Count > os.maxQuantity {
			return fmt.Errorf("item %d: count: %d, limit: %d: %w", i+1, item.Count, os.maxQuantity, core.ErrMaxQuantity)
		}
		total += item.Count
	}

	if total > os.maxQuantity {
		return fmt.Errorf("total quantity: %d, limit: %d: %w", total, os.maxQuantity, core.ErrMaxQuantity)
	}

	return nil
}
