package domain

import "time"

// PaymentMethod values accepted at checkout.
const (
	PaymentCOD     = "COD"
	PaymentPrepaid = "PREPAID"
)

// PaymentStatus values. Prepaid orders are recorded as paid at submission.
const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// DefaultSupplierID is used when a product names no supplier.
const DefaultSupplierID = "default-supplier"

// OrderCustomer holds the delivery contact captured by the checkout form.
type OrderCustomer struct {
	FullName   string `json:"fullName" firestore:"fullName"`
	Phone      string `json:"phone" firestore:"phone"`
	Email      string `json:"email" firestore:"email"`
	Address    string `json:"address" firestore:"address"`
	PostalCode string `json:"pincode" firestore:"pincode"`
}

// OrderItem is the per-line snapshot written with an order.
type OrderItem struct {
	ProductID  string `json:"productId" firestore:"productId"`
	Name       string `json:"name" firestore:"name"`
	Quantity   int    `json:"qty" firestore:"qty"`
	PriceCents int64  `json:"priceCents" firestore:"priceCents"`
	MRPCents   int64  `json:"mrpCents" firestore:"mrpCents"`
	SupplierID string `json:"supplierId" firestore:"supplierId"`
}

// SupplierShare groups the items fulfilled by one supplier.
type SupplierShare struct {
	Items      []OrderItem `json:"items" firestore:"items"`
	TotalCents int64       `json:"totalCents" firestore:"totalCents"`
}

// OrderTotals mirrors the cart summary at submission time.
type OrderTotals struct {
	ItemsCount       int   `json:"itemsCount" firestore:"itemsCount"`
	ListTotalCents   int64 `json:"mrpTotalCents" firestore:"mrpTotalCents"`
	SellTotalCents   int64 `json:"priceTotalCents" firestore:"priceTotalCents"`
	DiscountCents    int64 `json:"discountCents" firestore:"discountCents"`
	DeliveryFeeCents int64 `json:"deliveryFeeCents" firestore:"deliveryFeeCents"`
	GrandTotalCents  int64 `json:"grandTotalCents" firestore:"grandTotalCents"`
}

// Order is the record handed to the document store.
type Order struct {
	ID            string                   `json:"id,omitempty" firestore:"-"`
	CreatedAt     time.Time                `json:"createdAt" firestore:"createdAt"`
	Currency      string                   `json:"currency" firestore:"currency"`
	PaymentMethod string                   `json:"paymentMethod" firestore:"paymentMethod"`
	PaymentStatus string                   `json:"paymentStatus" firestore:"paymentStatus"`
	Totals        OrderTotals              `json:"totals" firestore:"totals"`
	Customer      OrderCustomer            `json:"customer" firestore:"customer"`
	User          *Identity                `json:"user" firestore:"user"`
	Items         []OrderItem              `json:"items" firestore:"items"`
	Suppliers     map[string]SupplierShare `json:"suppliers" firestore:"suppliers"`
}
