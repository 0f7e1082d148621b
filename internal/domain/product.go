package domain

import "time"

// Product is the catalog view consumed by the order core. AvailableQuantity is
// the canonical stock counter and is only ever mutated through the inventory
// ledger's reserve/release operations.
type Product struct {
	ID                string    `json:"id"`
	VendorName        string    `json:"vendorName,omitempty"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	PriceCents        int64     `json:"priceCents"`
	AvailableQuantity int       `json:"availableQuantity"`
	CreatedAt         time.Time `json:"createdAt"`
}
