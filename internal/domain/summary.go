package domain

// LineItem is a cart line joined with its catalog product.
type LineItem struct {
	Product            Product `json:"product"`
	Quantity           int     `json:"quantity"`
	LineSellTotalCents int64   `json:"lineSellTotalCents"`
	LineListTotalCents int64   `json:"lineListTotalCents"`
	OffPercent         int64   `json:"offPercent,omitempty"`
}

// Delivery is the shipping outcome folded into a summary.
type Delivery struct {
	PostalCode string `json:"postalCode"`
	Valid      bool   `json:"valid"`
	FeeCents   int64  `json:"feeCents"`
	ETALabel   string `json:"etaLabel,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Summary holds derived cart totals. It is never persisted.
type Summary struct {
	ItemsCount       int       `json:"itemsCount"`
	ListTotalCents   int64     `json:"listTotalCents"`
	SellTotalCents   int64     `json:"sellTotalCents"`
	DiscountCents    int64     `json:"discountCents"`
	DeliveryFeeCents int64     `json:"deliveryFeeCents"`
	GrandTotalCents  int64     `json:"grandTotalCents"`
	Empty            bool      `json:"empty"`
	SavingsMessage   string    `json:"savingsMessage,omitempty"`
	Delivery         *Delivery `json:"delivery,omitempty"`
}
