// Package order turns the current cart into an order record and hands it to
// the document store.
package order

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// Writer persists an order and returns its id. Writers report an id that is
// already taken with domain.ErrDuplicateOrder, and an unknown id passed to
// FindOrder with domain.ErrNotFound.
type Writer interface {
	CreateOrder(ctx context.Context, o domain.Order) (string, error)
	FindOrder(ctx context.Context, id string) (domain.Order, error)
}

// Memory keeps orders in process; used for local runs and tests.
type Memory struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	ids    []string
}

func NewMemory() *Memory {
	return &Memory{orders: make(map[string]domain.Order)}
}

func (m *Memory) CreateOrder(_ context.Context, o domain.Order) (string, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; ok {
		return "", domain.ErrDuplicateOrder
	}
	m.orders[o.ID] = o
	m.ids = append(m.ids, o.ID)
	return o.ID, nil
}

func (m *Memory) FindOrder(_ context.Context, id string) (domain.Order, error) {
	o, ok := m.Get(id)
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

// Get returns a stored order.
func (m *Memory) Get(id string) (domain.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok
}

// Len is the number of stored orders.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}
