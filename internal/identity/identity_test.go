package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/storage"
)

var testIdentityConfig = config.IdentityConfig{Secret: "secret", Issuer: "storefront-identity", ProfileTTL: time.Hour}

func mintIDToken(t *testing.T, secret, issuer string, claims Claims) string {
	t.Helper()
	if claims.Issuer == "" {
		claims.Issuer = issuer
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	v, err := NewVerifier(testIdentityConfig)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token := mintIDToken(t, "secret", "storefront-identity", Claims{
		Name:             "Asha",
		Email:            " Asha@Example.com ",
		Picture:          "https://example.com/a.png",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1"},
	})
	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Subject != "uid-1" || id.DisplayName != "Asha" || id.Email != "Asha@Example.com" || id.PhotoURL == "" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	v, err := NewVerifier(testIdentityConfig)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	sub := jwt.RegisteredClaims{Subject: "uid-1"}
	expired := jwt.RegisteredClaims{Subject: "uid-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": mintIDToken(t, "other", "storefront-identity", Claims{RegisteredClaims: sub}),
		"wrong issuer": mintIDToken(t, "secret", "someone-else", Claims{RegisteredClaims: sub}),
		"expired":      mintIDToken(t, "secret", "storefront-identity", Claims{RegisteredClaims: expired}),
		"no subject":   mintIDToken(t, "secret", "storefront-identity", Claims{Email: "a@x.com"}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(config.IdentityConfig{Issuer: "x"}); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestScopeKey(t *testing.T) {
	if got := ScopeKey(nil); got != GuestScope {
		t.Fatalf("expected guest, got %s", got)
	}
	if got := ScopeKey(&domain.Identity{Subject: "x"}); got != GuestScope {
		t.Fatalf("expected guest without email, got %s", got)
	}
	if got := ScopeKey(&domain.Identity{Email: " A@X.com"}); got != "user:a@x.com" {
		t.Fatalf("unexpected scope %s", got)
	}
}

type stubVerifier struct {
	identity domain.Identity
	err      error
}

func (s stubVerifier) Verify(string) (domain.Identity, error) {
	return s.identity, s.err
}

func newSessions(t *testing.T, v TokenVerifier) *Sessions {
	t.Helper()
	s, err := NewSessions(storage.NewMemory(), v, time.Hour, logger.Nop(), metrics.New(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("new sessions: %v", err)
	}
	return s
}

func TestSessionsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newSessions(t, stubVerifier{identity: domain.Identity{Subject: "uid-1", Email: "A@x.com"}})

	var changes []Change
	unsubscribe := s.OnChange(func(ch Change) { changes = append(changes, ch) })
	defer unsubscribe()

	token, guest, err := s.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if guest.Identity != nil || guest.Scope() != guest.ID+"/guest" {
		t.Fatalf("expected guest profile, got %+v", guest)
	}

	signedIn, err := s.SignIn(ctx, token, "id-token")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if signedIn.ID != guest.ID || signedIn.Scope() != guest.ID+"/user:a@x.com" {
		t.Fatalf("unexpected signed-in profile %+v", signedIn)
	}

	looked, err := s.Lookup(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if looked.Identity == nil || looked.Identity.Subject != "uid-1" {
		t.Fatalf("expected identity to persist, got %+v", looked)
	}

	out, err := s.SignOut(ctx, token)
	if err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if out.Identity != nil {
		t.Fatalf("expected identity cleared")
	}
	if _, err := s.SignOut(ctx, token); err != nil {
		t.Fatalf("second sign out: %v", err)
	}

	if len(changes) != 2 || changes[0].Kind != ChangeSignIn || changes[1].Kind != ChangeSignOut {
		t.Fatalf("unexpected changes %+v", changes)
	}
	if changes[0].Identity == nil || changes[1].Identity != nil {
		t.Fatalf("unexpected change identities %+v", changes)
	}
}

func TestSessionsRejectUnknownAndExpired(t *testing.T) {
	ctx := context.Background()
	s := newSessions(t, nil)

	if _, err := s.Lookup(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty token, got %v", err)
	}
	if _, err := s.Lookup(ctx, "nope"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for unknown token, got %v", err)
	}

	token, _, err := s.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.SignIn(ctx, token, "id-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected sign-in to fail without a verifier, got %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Lookup(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired profile to be rejected, got %v", err)
	}
}

func TestSignInFailureLeavesProfileUntouched(t *testing.T) {
	ctx := context.Background()
	s := newSessions(t, stubVerifier{err: domain.ErrUnauthenticated})

	token, _, err := s.Issue(ctx)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.SignIn(ctx, token, "bad"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	p, err := s.Lookup(ctx, token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Identity != nil {
		t.Fatalf("expected guest profile after failed sign in")
	}
}
