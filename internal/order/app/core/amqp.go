package core

import (
	"context"

	"cafe-orders/internal/order/domain/dto"
)

type IBroker interface {
	Close() error
	PushMessage(ctx context.Context, message dto.OrderCreatedMessage) error
}
