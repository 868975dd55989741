package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/storage"
)

// Change kinds passed to OnChange subscribers.
const (
	ChangeSignIn  = "sign_in"
	ChangeSignOut = "sign_out"
)

// Profile is one browser profile: an opaque token held by the client plus
// the identity it is currently signed in as.
type Profile struct {
	ID        string           `json:"id"`
	Identity  *domain.Identity `json:"identity,omitempty"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Scope is the cart scope for the profile. Carts of different profiles never
// mix, and within a profile each identity gets its own cart.
func (p Profile) Scope() string {
	return p.ID + "/" + ScopeKey(p.Identity)
}

// Change is delivered to OnChange subscribers.
type Change struct {
	ProfileID string
	Kind      string
	Identity  *domain.Identity
}

// TokenVerifier turns an identity-provider token into an identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Sessions issues profile tokens and records sign-in state in storage.
type Sessions struct {
	store    storage.Storage
	verifier TokenVerifier
	ttl      time.Duration
	logger   *logger.Logger
	metrics  *metrics.Storefront
	now      func() time.Time

	mu   sync.RWMutex
	subs map[int]func(Change)
	next int
}

func NewSessions(store storage.Storage, verifier TokenVerifier, ttl time.Duration, log *logger.Logger, m *metrics.Storefront) (*Sessions, error) {
	if store == nil {
		return nil, errors.New("identity: storage is required")
	}
	if ttl <= 0 {
		return nil, errors.New("identity: profile ttl must be positive")
	}
	return &Sessions{
		store:    store,
		verifier: verifier,
		ttl:      ttl,
		logger:   log,
		metrics:  m,
		now:      time.Now,
		subs:     make(map[int]func(Change)),
	}, nil
}

// Issue creates a guest profile and returns its token.
func (s *Sessions) Issue(ctx context.Context) (string, Profile, error) {
	token, err := randomToken()
	if err != nil {
		return "", Profile{}, err
	}
	p := Profile{ID: uuid.NewString(), ExpiresAt: s.now().Add(s.ttl).UTC()}
	if err := s.put(ctx, token, p); err != nil {
		return "", Profile{}, err
	}
	return token, p, nil
}

// Lookup resolves a profile token. Unknown or expired tokens wrap
// domain.ErrUnauthenticated.
func (s *Sessions) Lookup(ctx context.Context, token string) (Profile, error) {
	if token == "" {
		return Profile{}, fmt.Errorf("%w: missing profile token", domain.ErrUnauthenticated)
	}
	raw, ok, err := s.store.Get(ctx, sessionKey(token))
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown profile token", domain.ErrUnauthenticated)
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}, fmt.Errorf("%w: corrupt profile", domain.ErrUnauthenticated)
	}
	if s.now().After(p.ExpiresAt) {
		_ = s.store.Remove(ctx, sessionKey(token))
		return Profile{}, fmt.Errorf("%w: profile expired", domain.ErrUnauthenticated)
	}
	return p, nil
}

// SignIn verifies idToken and attaches the identity to the profile.
func (s *Sessions) SignIn(ctx context.Context, token, idToken string) (Profile, error) {
	if s.verifier == nil {
		return Profile{}, fmt.Errorf("%w: sign-in is not configured", domain.ErrUnauthenticated)
	}
	p, err := s.Lookup(ctx, token)
	if err != nil {
		return Profile{}, err
	}
	id, err := s.verifier.Verify(idToken)
	if err != nil {
		return Profile{}, err
	}
	p.Identity = &id
	if err := s.put(ctx, token, p); err != nil {
		return Profile{}, err
	}
	s.logger.Info(ctx, "identity: signed in", "profile_id", p.ID, "subject", id.Subject)
	s.emit(Change{ProfileID: p.ID, Kind: ChangeSignIn, Identity: &id})
	return p, nil
}

// SignOut detaches any identity from the profile. The guest cart of the
// profile becomes active again; nothing is merged.
func (s *Sessions) SignOut(ctx context.Context, token string) (Profile, error) {
	p, err := s.Lookup(ctx, token)
	if err != nil {
		return Profile{}, err
	}
	if p.Identity == nil {
		return p, nil
	}
	p.Identity = nil
	if err := s.put(ctx, token, p); err != nil {
		return Profile{}, err
	}
	s.logger.Info(ctx, "identity: signed out", "profile_id", p.ID)
	s.emit(Change{ProfileID: p.ID, Kind: ChangeSignOut})
	return p, nil
}

// OnChange registers fn for sign-in and sign-out transitions. The returned
// func unsubscribes.
func (s *Sessions) OnChange(fn func(Change)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Sessions) emit(ch Change) {
	s.metrics.IdentityChange(ch.Kind)
	s.mu.RLock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ch)
	}
}

func (s *Sessions) put(ctx context.Context, token string, p Profile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(token), string(b)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Tokens are never stored in the clear.
func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
