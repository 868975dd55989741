package storage

import (
	"context"
	"sync"
	"sync/atomic"

	"storefront/internal/logger"
	"storefront/internal/metrics"
)

// Fallback serves from primary until it fails, then switches to an in-memory
// store for the remainder of the process. Callers never see the primary's
// errors; the cart keeps working for the session, it just stops being durable.
type Fallback struct {
	primary  Storage
	memory   *Memory
	degraded atomic.Bool
	logger   *logger.Logger
	metrics  *metrics.Storefront

	// removed holds keys deleted while degraded whose primary copy may
	// still exist; reads must not fall through to the primary for them.
	mu      sync.Mutex
	removed map[string]struct{}
}

func NewFallback(primary Storage, log *logger.Logger, m *metrics.Storefront) *Fallback {
	return &Fallback{
		primary: primary,
		memory:  NewMemory(),
		logger:  log,
		metrics: m,
		removed: make(map[string]struct{}),
	}
}

// Degraded reports whether the in-memory fallback is active.
func (f *Fallback) Degraded() bool {
	return f.degraded.Load()
}

func (f *Fallback) Get(ctx context.Context, key string) (string, bool, error) {
	if f.degraded.Load() {
		if v, ok, _ := f.memory.Get(ctx, key); ok {
			return v, true, nil
		}
		if f.tombstoned(key) {
			return "", false, nil
		}
	}
	v, ok, err := f.primary.Get(ctx, key)
	if err != nil {
		f.degrade(ctx, "get", err)
		return f.memory.Get(ctx, key)
	}
	return v, ok, nil
}

func (f *Fallback) Set(ctx context.Context, key, value string) error {
	if f.degraded.Load() {
		return f.setMemory(ctx, key, value)
	}
	if err := f.primary.Set(ctx, key, value); err != nil {
		f.degrade(ctx, "set", err)
		return f.setMemory(ctx, key, value)
	}
	return nil
}

func (f *Fallback) setMemory(ctx context.Context, key, value string) error {
	if err := f.memory.Set(ctx, key, value); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.removed, key)
	f.mu.Unlock()
	return nil
}

func (f *Fallback) Remove(ctx context.Context, key string) error {
	if f.degraded.Load() {
		if err := f.primary.Remove(ctx, key); err != nil {
			f.tombstone(key)
		}
		return f.memory.Remove(ctx, key)
	}
	if err := f.primary.Remove(ctx, key); err != nil {
		f.degrade(ctx, "remove", err)
		f.tombstone(key)
		return f.memory.Remove(ctx, key)
	}
	return nil
}

func (f *Fallback) tombstone(key string) {
	f.mu.Lock()
	f.removed[key] = struct{}{}
	f.mu.Unlock()
}

func (f *Fallback) tombstoned(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.removed[key]
	return ok
}

func (f *Fallback) degrade(ctx context.Context, op string, err error) {
	if f.degraded.CompareAndSwap(false, true) {
		f.logger.Warn(ctx, "storage: primary failed, using in-memory fallback for this session", "op", op, "error", err.Error())
		f.metrics.StorageFallback()
	}
}
