// Package storage provides the key-value collaborator the cart is persisted in.
// It mirrors browser storage semantics: string values, whole-value overwrite,
// and a missing key is not an error.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded is returned when a write would exceed the store's capacity.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned when the backing store is disabled or unreachable.
	ErrUnavailable = errors.New("storage unavailable")
)

// Storage is a string key-value store. Get reports ok=false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Prefixed namespaces every key of inner with prefix.
type Prefixed struct {
	inner  Storage
	prefix string
}

func NewPrefixed(inner Storage, prefix string) *Prefixed {
	return &Prefixed{inner: inner, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *Prefixed) Remove(ctx context.Context, key string) error {
	return p.inner.Remove(ctx, p.prefix+key)
}
