package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/shipping"
)

func mustCatalog(t *testing.T, products ...domain.Product) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(products)
	require.NoError(t, err)
	return c
}

func mustEstimator(t *testing.T) *shipping.Estimator {
	t.Helper()
	e, err := shipping.NewEstimator(shipping.DefaultPolicy())
	require.NoError(t, err)
	return e
}

func cartOf(lines ...domain.CartLine) domain.Cart {
	return domain.Cart{Lines: lines}
}

func TestSummarizeTotals(t *testing.T) {
	cat := mustCatalog(t, domain.Product{ID: "p1", PriceCents: 100, MRPCents: 150, Currency: "INR"})
	a := NewAggregator(cat, nil)

	q := a.Summarize(cartOf(domain.CartLine{ProductID: "p1", Quantity: 2}), "")

	assert.Equal(t, 2, q.Summary.ItemsCount)
	assert.Equal(t, int64(200), q.Summary.SellTotalCents)
	assert.Equal(t, int64(300), q.Summary.ListTotalCents)
	assert.Equal(t, int64(100), q.Summary.DiscountCents)
	assert.Equal(t, int64(200), q.Summary.GrandTotalCents)
	assert.False(t, q.Summary.Empty)
	assert.Nil(t, q.Summary.Delivery)

	require.Len(t, q.Items, 1)
	assert.Equal(t, int64(200), q.Items[0].LineSellTotalCents)
	assert.Equal(t, int64(300), q.Items[0].LineListTotalCents)
	assert.Equal(t, int64(33), q.Items[0].OffPercent)
}

func TestSummarizeSkipsUnknownProducts(t *testing.T) {
	a := NewAggregator(mustCatalog(t), mustEstimator(t))

	q := a.Summarize(cartOf(domain.CartLine{ProductID: "ghost", Quantity: 1}), "560001")

	assert.Empty(t, q.Items)
	assert.NotNil(t, q.Items)
	assert.True(t, q.Summary.Empty)
	assert.Zero(t, q.Summary.ItemsCount)
	assert.Zero(t, q.Summary.SellTotalCents)
	assert.Zero(t, q.Summary.ListTotalCents)
	assert.Zero(t, q.Summary.DiscountCents)
	assert.Zero(t, q.Summary.DeliveryFeeCents)
	assert.Nil(t, q.Summary.Delivery)
}

func TestEmptyDiffersFromFreeItem(t *testing.T) {
	a := NewAggregator(mustCatalog(t, domain.Product{ID: "free", PriceCents: 0}), nil)
	q := a.Summarize(cartOf(domain.CartLine{ProductID: "free", Quantity: 1}), "")
	assert.False(t, q.Summary.Empty)
	assert.Equal(t, 1, q.Summary.ItemsCount)
	assert.Zero(t, q.Summary.SellTotalCents)
}

func TestSummarizeKeepsCartOrder(t *testing.T) {
	cat := mustCatalog(t,
		domain.Product{ID: "a", PriceCents: 1},
		domain.Product{ID: "b", PriceCents: 2},
		domain.Product{ID: "c", PriceCents: 3},
	)
	a := NewAggregator(cat, nil)
	q := a.Summarize(cartOf(
		domain.CartLine{ProductID: "c", Quantity: 1},
		domain.CartLine{ProductID: "ghost", Quantity: 1},
		domain.CartLine{ProductID: "a", Quantity: 1},
	), "")

	require.Len(t, q.Items, 2)
	assert.Equal(t, "c", q.Items[0].Product.ID)
	assert.Equal(t, "a", q.Items[1].Product.ID)
	assert.Equal(t, int64(4), q.Summary.SellTotalCents)
}

func TestDiscountNeverNegative(t *testing.T) {
	// MRP below price is treated as no MRP.
	cat := mustCatalog(t, domain.Product{ID: "odd", PriceCents: 500, MRPCents: 300})
	q := NewAggregator(cat, nil).Summarize(cartOf(domain.CartLine{ProductID: "odd", Quantity: 3}), "")
	assert.Equal(t, int64(1500), q.Summary.ListTotalCents)
	assert.Zero(t, q.Summary.DiscountCents)
	assert.Equal(t, NoSavingsMessage, q.Summary.SavingsMessage)
	assert.Zero(t, q.Items[0].OffPercent)
}

func TestSummarizeWithDelivery(t *testing.T) {
	cat := mustCatalog(t, domain.Product{ID: "pen", PriceCents: 2000, MRPCents: 2500, Currency: "INR"})
	a := NewAggregator(cat, mustEstimator(t))

	below := a.Summarize(cartOf(domain.CartLine{ProductID: "pen", Quantity: 2}), "560001")
	require.NotNil(t, below.Summary.Delivery)
	assert.True(t, below.Summary.Delivery.Valid)
	assert.Equal(t, int64(8000), below.Summary.DeliveryFeeCents)
	assert.Equal(t, int64(4000+8000), below.Summary.GrandTotalCents)
	assert.Equal(t, "You will save ₹10 on this order", below.Summary.SavingsMessage)

	free := a.Summarize(cartOf(domain.CartLine{ProductID: "pen", Quantity: 50}), "560001")
	assert.Zero(t, free.Summary.DeliveryFeeCents)
	assert.Equal(t, int64(100000), free.Summary.GrandTotalCents)

	invalid := a.Summarize(cartOf(domain.CartLine{ProductID: "pen", Quantity: 1}), "000000")
	require.NotNil(t, invalid.Summary.Delivery)
	assert.False(t, invalid.Summary.Delivery.Valid)
	assert.Equal(t, shipping.InvalidMessage, invalid.Summary.Delivery.Message)
	assert.Zero(t, invalid.Summary.DeliveryFeeCents)
	assert.Equal(t, int64(2000), invalid.Summary.GrandTotalCents)
}

func TestOffPercentRounds(t *testing.T) {
	assert.Equal(t, int64(20), OffPercent(domain.Product{PriceCents: 2000, MRPCents: 2500}))
	assert.Equal(t, int64(25), OffPercent(domain.Product{PriceCents: 1500, MRPCents: 2000}))
	assert.Equal(t, int64(67), OffPercent(domain.Product{PriceCents: 100, MRPCents: 300}))
	assert.Zero(t, OffPercent(domain.Product{PriceCents: 100}))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹999", FormatMoney(99900, "INR"))
	assert.Equal(t, "$1.50", FormatMoney(150, "USD"))
	assert.Equal(t, "CHF 2", FormatMoney(200, "CHF"))
	assert.Equal(t, "0.05", FormatMoney(5, ""))
}
