package domain

import "time"

// Cart is the single mutable cart of a user, created lazily on first use and
// emptied when an order is placed.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	TotalCents int64      `json:"totalCents"`
	CreatedAt  time.Time  `json:"createdAt"`
	Lines      []CartLine `json:"lines"`
}

type CartLine struct {
	ID             string `json:"id"`
	CartID         string `json:"-"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}
