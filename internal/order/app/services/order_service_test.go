package services_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/app/services"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"
	"cafe-orders/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	createdReq  *dto.CreateOrderRequest
	createOrder models.Order
	createErr   error

	items    []models.OrderItem
	itemsErr error
}

func (f *fakeOrderRepo) Create(_ context.Context, req dto.CreateOrderRequest) (models.Order, error) {
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	f.createdReq = &req
	return f.createOrder, nil
}

func (f *fakeOrderRepo) FindItemsByCustomerEmail(_ context.Context, _ string) ([]models.OrderItem, error) {
	return f.items, f.itemsErr
}

type fakeBroker struct {
	messages []dto.OrderCreatedMessage
	pushErr  error
}

func (f *fakeBroker) Close() error { return nil }

func (f *fakeBroker) PushMessage(_ context.Context, msg dto.OrderCreatedMessage) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	mylog, err := logger.New("ERROR")
	require.NoError(t, err)
	return mylog
}

func newOrderService(t *testing.T, repo *fakeOrderRepo, mb *fakeBroker) *services.OrderService {
	t.Helper()
	return services.NewOrderService(context.Background(), repo, mb, core.DefaultMaxQuantity, testLogger(t))
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Email:    "a@x.com",
		Address:  "X",
		Postcode: 1,
		Items: []dto.OrderItemRequest{
			{MenuID: 1, Count: 2},
			{MenuID: 2, Count: 1},
		},
	}
}

func TestValidateOrder(t *testing.T) {
	svc := newOrderService(t, &fakeOrderRepo{}, &fakeBroker{})

	tests := []struct {
		name    string
		mutate  func(*dto.CreateOrderRequest)
		wantErr bool
	}{
		{name: "valid request", mutate: func(r *dto.CreateOrderRequest) {}},
		{name: "empty email", mutate: func(r *dto.CreateOrderRequest) { r.Email = "" }, wantErr: true},
		{name: "malformed email", mutate: func(r *dto.CreateOrderRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "empty address", mutate: func(r *dto.CreateOrderRequest) { r.Address = "" }, wantErr: true},
		{name: "no items", mutate: func(r *dto.CreateOrderRequest) { r.Items = nil }, wantErr: true},
		{name: "zero count", mutate: func(r *dto.CreateOrderRequest) { r.Items[0].Count = 0 }, wantErr: true},
		{name: "negative count", mutate: func(r *dto.CreateOrderRequest) { r.Items[0].Count = -3 }, wantErr: true},
		{
			name:    "total over the ceiling",
			mutate:  func(r *dto.CreateOrderRequest) { r.Items[0].Count = core.DefaultMaxQuantity },
			wantErr: true,
		},
		{
			name:    "single count over the ceiling",
			mutate:  func(r *dto.CreateOrderRequest) { r.Items = []dto.OrderItemRequest{{MenuID: 1, Count: core.DefaultMaxQuantity + 1}} },
			wantErr: true,
		},
		{
			name: "counts that would overflow the total",
			mutate: func(r *dto.CreateOrderRequest) {
				r.Items = []dto.OrderItemRequest{
					{MenuID: 1, Count: math.MaxInt - 1},
					{MenuID: 2, Count: math.MaxInt - 1},
				}
			},
			wantErr: true,
		},
		{
			name: "total exactly at the ceiling",
			mutate: func(r *dto.CreateOrderRequest) {
				r.Items = []dto.OrderItemRequest{{MenuID: 1, Count: core.DefaultMaxQuantity}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := svc.ValidateOrder(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreatePublishesOrderCreated(t *testing.T) {
	repo := &fakeOrderRepo{
		createOrder: models.Order{
			ID:            7,
			ItemCount:     2,
			TotalQuantity: 3,
			CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
	mb := &fakeBroker{}
	svc := newOrderService(t, repo, mb)

	newOrder, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(7), newOrder.ID)

	require.Len(t, mb.messages, 1)
	assert.Equal(t, int64(7), mb.messages[0].OrderID)
	assert.Equal(t, "a@x.com", mb.messages[0].Email)
	assert.Equal(t, 2, mb.messages[0].ItemCount)
	assert.Equal(t, 3, mb.messages[0].TotalQuantity)
}

func TestCreateMissingMenuFailsWithoutEvent(t *testing.T) {
	repo := &fakeOrderRepo{
		createErr: fmt.Errorf("%w: %d", core.ErrMenuNotFound, 42),
	}
	mb := &fakeBroker{}
	svc := newOrderService(t, repo, mb)

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMenuNotFound)
	assert.Contains(t, err.Error(), "42")
	assert.Empty(t, mb.messages)
}

func TestCreateSurvivesBrokerFailure(t *testing.T) {
	repo := &fakeOrderRepo{createOrder: models.Order{ID: 11, ItemCount: 2, TotalQuantity: 3}}
	mb := &fakeBroker{pushErr: fmt.Errorf("broker down")}
	svc := newOrderService(t, repo, mb)

	newOrder, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(11), newOrder.ID)
}

func TestGetHistoryGroupsItemsPerOrder(t *testing.T) {
	repo := &fakeOrderRepo{
		items: []models.OrderItem{
			{ID: 1, OrderID: 10, Address: "X", Postcode: 1, NameSnapshot: "latte", PriceSnapshot: 4500, Count: 2},
			{ID: 2, OrderID: 10, Address: "X", Postcode: 1, NameSnapshot: "scone", PriceSnapshot: 3000, Count: 1},
			{ID: 3, OrderID: 11, Address: "Y", Postcode: 2, NameSnapshot: "mocha", PriceSnapshot: 5000, Count: 1},
		},
	}
	svc := newOrderService(t, repo, &fakeBroker{})

	history, err := svc.GetHistory(context.Background(), "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", history.Email)
	require.Len(t, history.Orders, 2)

	first := history.Orders[0]
	assert.Equal(t, "X", first.Address)
	assert.Equal(t, 1, first.Postcode)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "latte", first.Items[0].MenuName)
	assert.Equal(t, 4500, first.Items[0].MenuPrice)
	assert.Equal(t, 2, first.Items[0].Count)
	assert.Equal(t, "scone", first.Items[1].MenuName)

	second := history.Orders[1]
	assert.Equal(t, "Y", second.Address)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "mocha", second.Items[0].MenuName)
}

func TestGetHistoryKeepsFirstSeenOrderOfOrders(t *testing.T) {
	repo := &fakeOrderRepo{
		items: []models.OrderItem{
			{ID: 1, OrderID: 20, Address: "A", Postcode: 1, NameSnapshot: "latte", PriceSnapshot: 4500, Count: 1},
			{ID: 2, OrderID: 21, Address: "B", Postcode: 2, NameSnapshot: "mocha", PriceSnapshot: 5000, Count: 1},
			{ID: 3, OrderID: 20, Address: "A", Postcode: 1, NameSnapshot: "scone", PriceSnapshot: 3000, Count: 2},
		},
	}
	svc := newOrderService(t, repo, &fakeBroker{})

	history, err := svc.GetHistory(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, history.Orders, 2)

	assert.Equal(t, "A", history.Orders[0].Address)
	require.Len(t, history.Orders[0].Items, 2)
	assert.Equal(t, "latte", history.Orders[0].Items[0].MenuName)
	assert.Equal(t, "scone", history.Orders[0].Items[1].MenuName)

	assert.Equal(t, "B", history.Orders[1].Address)
	require.Len(t, history.Orders[1].Items, 1)
}

func TestGetHistoryEmptyIsNotAnError(t *testing.T) {
	svc := newOrderService(t, &fakeOrderRepo{}, &fakeBroker{})

	history, err := svc.GetHistory(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Equal(t, "nobody@x.com", history.Email)
	assert.NotNil(t, history.Orders)
	assert.Len(t, history.Orders, 0)
}
