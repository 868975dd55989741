// Package pricing joins a cart with the catalog and derives totals.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/shipping"
)

// NoSavingsMessage is shown when nothing in the cart is discounted.
const NoSavingsMessage = "Add more eco products to unlock bigger savings."

// Quote is a summarized cart: resolved items in cart order plus totals.
type Quote struct {
	Items   []domain.LineItem `json:"items"`
	Summary domain.Summary    `json:"summary"`
}

type Aggregator struct {
	catalog   catalog.Lookup
	estimator *shipping.Estimator
}

// NewAggregator builds an aggregator. A nil estimator disables delivery fees.
func NewAggregator(lookup catalog.Lookup, estimator *shipping.Estimator) *Aggregator {
	return &Aggregator{catalog: lookup, estimator: estimator}
}

// Summarize resolves every line against the catalog. Lines whose product is
// unknown are left out of both items and totals. A delivery estimate is
// attached when postalCode is non-empty and the cart is not empty.
func (a *Aggregator) Summarize(c domain.Cart, postalCode string) Quote {
	q := Quote{Items: make([]domain.LineItem, 0, len(c.Lines))}
	s := &q.Summary
	currency := ""

	for _, line := range c.Lines {
		p, ok := a.catalog.Product(line.ProductID)
		if !ok {
			continue
		}
		qty := int64(line.Quantity)
		item := domain.LineItem{
			Product:            p,
			Quantity:           line.Quantity,
			LineSellTotalCents: p.PriceCents * qty,
			LineListTotalCents: p.ListPriceCents() * qty,
			OffPercent:         OffPercent(p),
		}
		q.Items = append(q.Items, item)
		s.ItemsCount += line.Quantity
		s.SellTotalCents += item.LineSellTotalCents
		s.ListTotalCents += item.LineListTotalCents
		if currency == "" {
			currency = p.Currency
		}
	}

	s.DiscountCents = max(0, s.ListTotalCents-s.SellTotalCents)
	s.Empty = len(q.Items) == 0
	if s.Empty {
		return q
	}

	if postalCode != "" && a.estimator != nil {
		est := a.estimator.Estimate(postalCode, s.SellTotalCents)
		s.Delivery = &domain.Delivery{
			PostalCode: est.PostalCode,
			Valid:      est.Valid,
			FeeCents:   est.FeeCents,
			ETALabel:   est.ETALabel,
			Message:    est.Message,
		}
		s.DeliveryFeeCents = est.FeeCents
	}
	s.GrandTotalCents = s.SellTotalCents + s.DeliveryFeeCents
	s.SavingsMessage = SavingsMessage(s.DiscountCents, currency)
	return q
}

// OffPercent is the rounded discount of price against MRP, 0 when there is none.
func OffPercent(p domain.Product) int64 {
	if !p.HasDiscount() || p.MRPCents <= 0 {
		return 0
	}
	off := decimal.NewFromInt(p.MRPCents - p.PriceCents).
		Div(decimal.NewFromInt(p.MRPCents)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return off.IntPart()
}

// SavingsMessage renders the cart savings banner.
func SavingsMessage(discountCents int64, currency string) string {
	if discountCents <= 0 {
		return NoSavingsMessage
	}
	return "You will save " + FormatMoney(discountCents, currency) + " on this order"
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatMoney renders minor units with the currency symbol, e.g. "₹19.99".
func FormatMoney(cents int64, currency string) string {
	amount := catalog.FormatAmount(cents)
	if sym, ok := currencySymbols[currency]; ok {
		return sym + amount
	}
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}
