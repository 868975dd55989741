package order

import "sync"

// inflight allows one submission per scope at a time.
type inflight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{active: make(map[string]struct{})}
}

// acquire reports false when scope already has a submission running. The
// returned release must be called exactly once.
func (g *inflight) acquire(scope string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[scope]; busy {
		return nil, false
	}
	g.active[scope] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.active, scope)
		g.mu.Unlock()
	}, true
}
