package httpserver

import (
	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/pricing"
)

type productView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	TagLabel    string `json:"tagLabel,omitempty"`
	Image       string `json:"image,omitempty"`
	Short       string `json:"short,omitempty"`
	Description string `json:"description,omitempty"`
	Badge       string `json:"badge,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	MRPCents    int64  `json:"mrpCents"`
	Currency    string `json:"currency"`
	Price       string `json:"price"`
	MRP         string `json:"mrp"`
	OffPercent  int64  `json:"offPercent,omitempty"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		TagLabel:    p.TagLabel,
		Image:       p.Image,
		Short:       p.Short,
		Description: p.Description,
		Badge:       p.Badge,
		PriceCents:  p.PriceCents,
		MRPCents:    p.ListPriceCents(),
		Currency:    p.Currency,
		Price:       pricing.FormatMoney(p.PriceCents, p.Currency),
		MRP:         pricing.FormatMoney(p.ListPriceCents(), p.Currency),
		OffPercent:  pricing.OffPercent(p),
	}
}

type lineItemView struct {
	Product            productView `json:"product"`
	Quantity           int         `json:"quantity"`
	LineSellTotalCents int64       `json:"lineSellTotalCents"`
	LineListTotalCents int64       `json:"lineListTotalCents"`
	LineTotal          string      `json:"lineTotal"`
}

type deliveryView struct {
	PostalCode string `json:"pincode"`
	Valid      bool   `json:"valid"`
	FeeCents   int64  `json:"feeCents"`
	Fee        string `json:"fee"`
	ETALabel   string `json:"eta,omitempty"`
	Message    string `json:"message,omitempty"`
}

type summaryView struct {
	ItemsCount       int           `json:"itemsCount"`
	ListTotalCents   int64         `json:"mrpTotalCents"`
	SellTotalCents   int64         `json:"priceTotalCents"`
	DiscountCents    int64         `json:"discountCents"`
	DeliveryFeeCents int64         `json:"deliveryFeeCents"`
	GrandTotalCents  int64         `json:"grandTotalCents"`
	ListTotal        string        `json:"mrpTotal"`
	SellTotal        string        `json:"priceTotal"`
	Discount         string        `json:"discount"`
	GrandTotal       string        `json:"grandTotal"`
	Empty            bool          `json:"empty"`
	SavingsMessage   string        `json:"savingsMessage,omitempty"`
	Delivery         *deliveryView `json:"delivery,omitempty"`
}

type cartView struct {
	Items   []lineItemView `json:"items"`
	Summary summaryView    `json:"summary"`
	Count   int            `json:"count"`
}

func toCartView(q pricing.Quote, count int, currency string) cartView {
	items := make([]lineItemView, 0, len(q.Items))
	for _, it := range q.Items {
		if it.Product.Currency != "" {
			currency = it.Product.Currency
		}
		items = append(items, lineItemView{
			Product:            toProductView(it.Product),
			Quantity:           it.Quantity,
			LineSellTotalCents: it.LineSellTotalCents,
			LineListTotalCents: it.LineListTotalCents,
			LineTotal:          pricing.FormatMoney(it.LineSellTotalCents, it.Product.Currency),
		})
	}
	s := q.Summary
	view := cartView{
		Items: items,
		Count: count,
		Summary: summaryView{
			ItemsCount:       s.ItemsCount,
			ListTotalCents:   s.ListTotalCents,
			SellTotalCents:   s.SellTotalCents,
			DiscountCents:    s.DiscountCents,
			DeliveryFeeCents: s.DeliveryFeeCents,
			GrandTotalCents:  s.GrandTotalCents,
			ListTotal:        pricing.FormatMoney(s.ListTotalCents, currency),
			SellTotal:        pricing.FormatMoney(s.SellTotalCents, currency),
			Discount:         pricing.FormatMoney(s.DiscountCents, currency),
			GrandTotal:       pricing.FormatMoney(s.GrandTotalCents, currency),
			Empty:            s.Empty,
			SavingsMessage:   s.SavingsMessage,
		},
	}
	if s.Delivery != nil {
		view.Summary.Delivery = toDeliveryView(*s.Delivery, currency)
	}
	return view
}

func toDeliveryView(d domain.Delivery, currency string) *deliveryView {
	return &deliveryView{
		PostalCode: d.PostalCode,
		Valid:      d.Valid,
		FeeCents:   d.FeeCents,
		Fee:        pricing.FormatMoney(d.FeeCents, currency),
		ETALabel:   d.ETALabel,
		Message:    d.Message,
	}
}

type sessionView struct {
	ProfileID string           `json:"profileId"`
	Token     string           `json:"token,omitempty"`
	Identity  *domain.Identity `json:"identity"`
	SignedIn  bool             `json:"signedIn"`
}

type orderView struct {
	OrderID       string `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
	GrandTotal    string `json:"grandTotal"`
	Message       string `json:"message"`
}

func toOrderView(r order.Receipt) orderView {
	return orderView{
		OrderID:       r.OrderID,
		PaymentMethod: r.Order.PaymentMethod,
		PaymentStatus: r.Order.PaymentStatus,
		GrandTotal:    pricing.FormatMoney(r.Order.Totals.GrandTotalCents, r.Order.Currency),
		Message:       "Order placed! ID: " + r.OrderID,
	}
}
