package models

import "time"

type Customer struct {
	ID        int64
	Email     string
	Address   string
	Postcode  int
	CreatedAt time.Time
}

type Menu struct {
	ID         int64
	Name       string
	Price      int
	ImgURL     string
	Category   string
	OwnerEmail string
	CreatedAt  time.Time
}

type Order struct {
	ID            int64
	CustomerID    int64
	Address       string
	Postcode      int
	CreatedAt     time.Time
	ItemCount     int
	TotalQuantity int
}

// OrderItem is one order line as read back for history: the snapshot columns
// plus the owning order's shipping fields from the join.
type OrderItem struct {
	ID            int64
	OrderID       int64
	MenuID        int64
	NameSnapshot  string
	PriceSnapshot int
	Count         int
	Address       string
	Postcode      int
}
