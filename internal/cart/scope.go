package cart

import "context"

// GuestScope is the scope used when nobody is signed in.
const GuestScope = "guest"

type scopeKey struct{}

// WithScope returns a context whose cart operations target scope.
func WithScope(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope stored by WithScope, or GuestScope.
func ScopeFrom(ctx context.Context) string {
	if ctx != nil {
		if s, ok := ctx.Value(scopeKey{}).(string); ok && s != "" {
			return s
		}
	}
	return GuestScope
}

func cartKey(scope string) string {
	return "cart:" + scope
}

func shippingKey(scope string) string {
	return cartKey(scope) + ":shipping"
}
