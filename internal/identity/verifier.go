// Package identity verifies identity-provider tokens and tracks which
// identity, if any, each browser profile is signed in as.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/config"
	"storefront/internal/domain"
)

var signingMethod = jwt.SigningMethodHS256

// Claims is the ID token issued by the identity provider.
type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 ID tokens against a shared secret and issuer.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewVerifier(cfg config.IdentityConfig) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, errors.New("identity secret is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("identity issuer is required")
	}
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}, nil
}

// Verify validates token and returns the identity it names. Every failure
// wraps domain.ErrUnauthenticated.
func (v *Verifier) Verify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing id token", domain.ErrUnauthenticated)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}

	return domain.Identity{
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		Email:       strings.TrimSpace(claims.Email),
		PhotoURL:    claims.Picture,
	}, nil
}

// ScopeKey partitions carts by identity: "user:<lowercased email>" when an
// email is known, GuestScope otherwise.
func ScopeKey(id *domain.Identity) string {
	if id == nil {
		return GuestScope
	}
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return GuestScope
	}
	return "user:" + email
}

// GuestScope is the scope key used without a signed-in email.
const GuestScope = "guest"
