package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/logger"
	"storefront/internal/metrics"
)

type failingStore struct {
	getErr    error
	setErr    error
	removeErr error
	values    map[string]string
	sets      int
}

func (f *failingStore) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *failingStore) Set(_ context.Context, key, value string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *failingStore) Remove(_ context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.values, key)
	return nil
}

func TestFallbackPassesThroughWhileHealthy(t *testing.T) {
	ctx := context.Background()
	primary := &failingStore{}
	fb := NewFallback(primary, logger.Nop(), nil)

	if err := fb.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if primary.values["k"] != "v" {
		t.Fatalf("expected write to reach primary")
	}
	if v, ok, err := fb.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("unexpected get v=%q ok=%v err=%v", v, ok, err)
	}
	if fb.Degraded() {
		t.Fatalf("should not be degraded")
	}
}

func TestFallbackDegradesOnQuota(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	primary := &failingStore{setErr: ErrQuotaExceeded}
	fb := NewFallback(primary, logger.Nop(), m)

	if err := fb.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set should be absorbed by fallback, got %v", err)
	}
	if !fb.Degraded() {
		t.Fatalf("expected degraded")
	}
	if v, ok, err := fb.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("expected value from memory, got v=%q ok=%v err=%v", v, ok, err)
	}

	// Later writes skip the primary entirely.
	if err := fb.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if primary.sets != 1 {
		t.Fatalf("expected primary to be bypassed after degrading, got %d sets", primary.sets)
	}
	if got := fallbackCount(t, reg); got != 1 {
		t.Fatalf("expected one fallback transition, got %v", got)
	}
}

func TestFallbackDegradesOnReadFailure(t *testing.T) {
	ctx := context.Background()
	primary := &failingStore{getErr: ErrUnavailable}
	fb := NewFallback(primary, logger.Nop(), nil)

	v, ok, err := fb.Get(ctx, "missing")
	if err != nil || ok || v != "" {
		t.Fatalf("expected clean miss, got v=%q ok=%v err=%v", v, ok, err)
	}
	if !fb.Degraded() {
		t.Fatalf("expected degraded after read failure")
	}
}

func TestFallbackRemove(t *testing.T) {
	ctx := context.Background()
	primary := &failingStore{removeErr: errors.New("disabled")}
	fb := NewFallback(primary, logger.Nop(), nil)

	if err := fb.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove should be absorbed, got %v", err)
	}
	if !fb.Degraded() {
		t.Fatalf("expected degraded after remove failure")
	}
}

func TestFallbackRemoveWhileDegradedDoesNotResurrect(t *testing.T) {
	ctx := context.Background()
	primary := &failingStore{
		values:    map[string]string{"k": "old"},
		setErr:    ErrQuotaExceeded,
		removeErr: errors.New("disabled"),
	}
	fb := NewFallback(primary, logger.Nop(), nil)

	if err := fb.Set(ctx, "other", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !fb.Degraded() {
		t.Fatalf("expected degraded")
	}
	if v, ok, _ := fb.Get(ctx, "k"); !ok || v != "old" {
		t.Fatalf("expected primary value before remove, got v=%q ok=%v", v, ok)
	}

	if err := fb.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if v, ok, err := fb.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected removed key to stay gone, got v=%q ok=%v err=%v", v, ok, err)
	}

	if err := fb.Set(ctx, "k", "new"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := fb.Get(ctx, "k"); !ok || v != "new" {
		t.Fatalf("expected rewritten value, got v=%q ok=%v", v, ok)
	}
}

func fallbackCount(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "storefront_storage_fallback_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("fallback counter not registered")
	return 0
}
