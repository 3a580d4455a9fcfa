package dto

import "time"

type CreateOrderRequest struct {
	Email    string             `json:"email"`
	Address  string             `json:"address"`
	Postcode int                `json:"postcode"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	MenuID int64 `json:"menuId"`
	Count  int   `json:"count"`
}

type CreateOrderResponse struct {
	Message string `json:"message"`
}

type HistoryRequest struct {
	Email string `json:"email"`
}

type HistoryItem struct {
	MenuName  string `json:"menuName"`
	MenuPrice int    `json:"menuPrice"`
	Count     int    `json:"count"`
}

// OrderSummary is one past order: its shipping fields and every item bought
// in it, in insertion order.
type OrderSummary struct {
	Address  string        `json:"address"`
	Postcode int           `json:"postcode"`
	Items    []HistoryItem `json:"items"`
}

type HistoryResponse struct {
	Email  string         `json:"email"`
	Orders []OrderSummary `json:"orders"`
}

// OrderCreatedMessage is published to the broker after an order commits.
type OrderCreatedMessage struct {
	OrderID       int64     `json:"order_id"`
	Email         string    `json:"email"`
	ItemCount     int       `json:"item_count"`
	TotalQuantity int       `json:"total_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}
