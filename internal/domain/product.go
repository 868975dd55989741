package domain

import "time"

// Product is a catalog entry. Amounts are integer minor units.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"priceCents"`
	MRPCents    int64     `json:"mrpCents"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category,omitempty"`
	TagLabel    string    `json:"tagLabel,omitempty"`
	Image       string    `json:"image,omitempty"`
	Short       string    `json:"short,omitempty"`
	Description string    `json:"description,omitempty"`
	Badge       string    `json:"badge,omitempty"`
	SupplierID  string    `json:"supplierId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// ListPriceCents is the MRP when it exceeds the selling price, else the price.
func (p Product) ListPriceCents() int64 {
	if p.MRPCents > p.PriceCents {
		return p.MRPCents
	}
	return p.PriceCents
}

// HasDiscount reports whether the list price is above the selling price.
func (p Product) HasDiscount() bool {
	return p.MRPCents > p.PriceCents
}
