// Package cart persists a shopper's cart in key-value storage, one cart per
// scope, and notifies subscribers after every successful write.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/storage"
)

// ZeroQuantityPolicy decides what SetQuantity does with a target below 1.
type ZeroQuantityPolicy int

const (
	// ZeroQuantityClamp keeps the line at quantity 1.
	ZeroQuantityClamp ZeroQuantityPolicy = iota
	// ZeroQuantityDelete removes the line.
	ZeroQuantityDelete
)

// ParseZeroQuantityPolicy maps "clamp" or "delete" to a policy.
func ParseZeroQuantityPolicy(s string) (ZeroQuantityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clamp":
		return ZeroQuantityClamp, nil
	case "delete":
		return ZeroQuantityDelete, nil
	default:
		return 0, fmt.Errorf("unknown zero quantity policy %q", s)
	}
}

// Mutation names reported to subscribers and metrics.
const (
	OpSave     = "save"
	OpAdd      = "add"
	OpSet      = "set_quantity"
	OpRemove   = "remove"
	OpClear    = "clear"
	OpShipping = "shipping"
)

// Change describes a persisted cart write. PostalCode is set for OpShipping.
type Change struct {
	Scope      string
	Op         string
	Cart       domain.Cart
	PostalCode string
}

type Config struct {
	Storage storage.Storage
	// Scope resolves the cart scope for a request. Defaults to ScopeFrom.
	Scope        func(ctx context.Context) string
	ZeroQuantity ZeroQuantityPolicy
	Logger       *logger.Logger
	Metrics      *metrics.Storefront
}

type Store struct {
	storage storage.Storage
	scope   func(ctx context.Context) string
	zeroQty ZeroQuantityPolicy
	logger  *logger.Logger
	metrics *metrics.Storefront
	locks   sync.Map // scope -> *sync.Mutex
	subMu   sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

func NewStore(cfg Config) (*Store, error) {
	if cfg.Storage == nil {
		return nil, errors.New("cart: storage is required")
	}
	scope := cfg.Scope
	if scope == nil {
		scope = ScopeFrom
	}
	return &Store{
		storage: cfg.Storage,
		scope:   scope,
		zeroQty: cfg.ZeroQuantity,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		subs:    make(map[int]func(Change)),
	}, nil
}

// Load returns the persisted cart for the request scope. Missing, unreadable
// or malformed data yields an empty cart.
func (s *Store) Load(ctx context.Context) domain.Cart {
	return s.load(ctx, s.scope(ctx))
}

func (s *Store) load(ctx context.Context, scope string) domain.Cart {
	raw, ok, err := s.storage.Get(ctx, cartKey(scope))
	if err != nil {
		s.logger.Warn(ctx, "cart: read failed, treating as empty", "scope", scope, "error", err.Error())
		return emptyCart()
	}
	if !ok {
		return emptyCart()
	}
	c, err := decode(raw)
	if err != nil {
		s.logger.Warn(ctx, "cart: discarding malformed cart", "scope", scope)
		return emptyCart()
	}
	return c
}

// Save overwrites the persisted cart with c.
func (s *Store) Save(ctx context.Context, c domain.Cart) error {
	scope := s.scope(ctx)
	mu := s.lock(scope)
	mu.Lock()
	defer mu.Unlock()
	return s.save(ctx, scope, OpSave, normalize(c))
}

// Add appends productID or increments its existing line by max(1, qty).
func (s *Store) Add(ctx context.Context, productID string, qty int) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return &domain.ValidationError{Fields: map[string]string{"productId": "is required"}}
	}
	return s.mutate(ctx, OpAdd, func(c *domain.Cart) bool {
		n := max(1, qty)
		if i := c.Find(productID); i >= 0 {
			c.Lines[i].Quantity += n
			return true
		}
		c.Lines = append(c.Lines, domain.CartLine{ProductID: productID, Quantity: n})
		return true
	})
}

// SetQuantity replaces the quantity of an existing line. A missing line is
// left alone. Targets below 1 follow the configured ZeroQuantityPolicy.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	return s.mutate(ctx, OpSet, func(c *domain.Cart) bool {
		i := c.Find(productID)
		if i < 0 {
			return false
		}
		if qty < 1 && s.zeroQty == ZeroQuantityDelete {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
		c.Lines[i].Quantity = max(1, qty)
		return true
	})
}

// Remove drops the line for productID if present.
func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, OpRemove, func(c *domain.Cart) bool {
		i := c.Find(productID)
		if i < 0 {
			return false
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, OpClear, func(c *domain.Cart) bool {
		c.Lines = []domain.CartLine{}
		return true
	})
}

// Count is the sum of quantities in the persisted cart.
func (s *Store) Count(ctx context.Context) int {
	return s.Load(ctx).TotalQuantity()
}

// Subscribe registers fn for every successful write and returns a func that
// removes it. fn runs synchronously on the writing goroutine.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) mutate(ctx context.Context, op string, apply func(c *domain.Cart) bool) error {
	scope := s.scope(ctx)
	mu := s.lock(scope)
	mu.Lock()
	defer mu.Unlock()

	c := s.load(ctx, scope).Clone()
	if !apply(&c) {
		return nil
	}
	return s.save(ctx, scope, op, c)
}

func (s *Store) save(ctx context.Context, scope, op string, c domain.Cart) error {
	raw, err := encode(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, cartKey(scope), raw); err != nil {
		s.logger.Error(ctx, "cart: write failed", err, "scope", scope, "op", op)
		return fmt.Errorf("save cart: %w", err)
	}
	s.metrics.CartMutation(op)
	s.logger.Debug(ctx, "cart: saved", "scope", scope, "op", op, "lines", len(c.Lines))
	s.notify(Change{Scope: scope, Op: op, Cart: c.Clone()})
	return nil
}

func (s *Store) notify(ch Change) {
	s.subMu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()
	for _, fn := range fns {
		fn(ch)
	}
}

func (s *Store) lock(scope string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(scope, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// normalize merges duplicates and clamps quantities so a saved cart always
// holds unique ids with quantity >= 1.
func normalize(c domain.Cart) domain.Cart {
	out := domain.Cart{Lines: make([]domain.CartLine, 0, len(c.Lines))}
	for _, line := range c.Lines {
		id := strings.TrimSpace(line.ProductID)
		if id == "" {
			continue
		}
		qty := max(1, line.Quantity)
		if i := out.Find(id); i >= 0 {
			out.Lines[i].Quantity += qty
			continue
		}
		out.Lines = append(out.Lines, domain.CartLine{ProductID: id, Quantity: qty})
	}
	return out
}

func emptyCart() domain.Cart {
	return domain.Cart{Lines: []domain.CartLine{}}
}
