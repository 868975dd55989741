package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type shippingPreference struct {
	PostalCode string `json:"postalCode"`
	// Pin is the older field name.
	Pin string `json:"pin,omitempty"`
}

// SavePostalCode remembers the delivery postal code for the request scope
// and notifies subscribers with an OpShipping change. The code is stored
// as entered; validation belongs to the estimator.
func (s *Store) SavePostalCode(ctx context.Context, code string) error {
	scope := s.scope(ctx)
	code = strings.TrimSpace(code)
	b, err := json.Marshal(shippingPreference{PostalCode: code})
	if err != nil {
		return fmt.Errorf("encode shipping preference: %w", err)
	}

	mu := s.lock(scope)
	mu.Lock()
	defer mu.Unlock()

	if err := s.storage.Set(ctx, shippingKey(scope), string(b)); err != nil {
		s.logger.Error(ctx, "cart: shipping preference write failed", err, "scope", scope)
		return fmt.Errorf("save shipping preference: %w", err)
	}
	s.metrics.CartMutation(OpShipping)
	s.notify(Change{Scope: scope, Op: OpShipping, Cart: s.load(ctx, scope), PostalCode: code})
	return nil
}

// LoadPostalCode returns the remembered postal code, or "".
func (s *Store) LoadPostalCode(ctx context.Context) string {
	scope := s.scope(ctx)
	raw, ok, err := s.storage.Get(ctx, shippingKey(scope))
	if err != nil || !ok {
		return ""
	}
	var pref shippingPreference
	if err := json.Unmarshal([]byte(raw), &pref); err != nil {
		return ""
	}
	if pref.PostalCode != "" {
		return pref.PostalCode
	}
	return pref.Pin
}
