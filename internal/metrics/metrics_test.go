package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.CartMutation("add")
	m.CartMutation("add")
	m.CartMutation("")
	m.Order("created")
	m.StorageFallback()
	m.IdentityChange("sign_in")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := counterValue(mfs, "storefront_cart_mutations_total", "op", "add"); err != nil || got != 2 {
		t.Fatalf("expected add=2, got %v err=%v", got, err)
	}
	if got, err := counterValue(mfs, "storefront_cart_mutations_total", "op", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unknown=1, got %v err=%v", got, err)
	}
	if got, err := counterValue(mfs, "storefront_orders_total", "outcome", "created"); err != nil || got != 1 {
		t.Fatalf("expected created=1, got %v err=%v", got, err)
	}
	if got, err := counterValue(mfs, "storefront_storage_fallback_total", "", ""); err != nil || got != 1 {
		t.Fatalf("expected fallback=1, got %v err=%v", got, err)
	}
}

func TestNilRecorderIsNoop(t *testing.T) {
	var m *Storefront
	m.CartMutation("add")
	New(nil).Order("failed")
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if label == "" {
				return metric.GetCounter().GetValue(), nil
			}
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("label %s=%s not found on %s", label, value, name)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
