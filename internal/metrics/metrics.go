package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, storage and checkout activity.
type Storefront struct {
	cartMutations   *prometheus.CounterVec
	orders          *prometheus.CounterVec
	storageFallback prometheus.Counter
	identityChanges *prometheus.CounterVec
}

// New registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func New(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations persisted, by operation.",
	}, []string{"op"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_total",
		Help: "Order submissions, by outcome.",
	}, []string{"outcome"})
	storageFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_storage_fallback_total",
		Help: "Times the cart storage degraded to the in-memory fallback.",
	})
	identityChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_identity_changes_total",
		Help: "Sign-in and sign-out transitions.",
	}, []string{"kind"})
	reg.MustRegister(cartMutations, orders, storageFallback, identityChanges)
	return &Storefront{
		cartMutations:   cartMutations,
		orders:          orders,
		storageFallback: storageFallback,
		identityChanges: identityChanges,
	}
}

func (s *Storefront) CartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) Order(outcome string) {
	if s == nil || s.orders == nil {
		return
	}
	s.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (s *Storefront) StorageFallback() {
	if s == nil || s.storageFallback == nil {
		return
	}
	s.storageFallback.Inc()
}

func (s *Storefront) IdentityChange(kind string) {
	if s == nil || s.identityChanges == nil {
		return
	}
	s.identityChanges.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
