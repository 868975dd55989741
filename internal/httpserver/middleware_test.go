package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/identity"
	"storefront/internal/logger"
)

type stubSessions struct {
	profile identity.Profile
	err     error
}

func (s *stubSessions) Issue(context.Context) (string, identity.Profile, error) {
	return "tok", s.profile, s.err
}

func (s *stubSessions) Lookup(context.Context, string) (identity.Profile, error) {
	return s.profile, s.err
}

func (s *stubSessions) SignIn(context.Context, string, string) (identity.Profile, error) {
	return s.profile, s.err
}

func (s *stubSessions) SignOut(context.Context, string) (identity.Profile, error) {
	return s.profile, s.err
}

func middlewareRouter(sessions SessionService, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &handlers{deps: Deps{Sessions: sessions}, logger: logger.Nop()}
	router := gin.New()
	router.Use(h.profileMiddleware())
	router.GET("/test", handler)
	return router
}

func TestProfileMiddleware_Success(t *testing.T) {
	sessions := &stubSessions{profile: identity.Profile{ID: "p1"}}
	var scope string
	router := middlewareRouter(sessions, func(c *gin.Context) {
		scope = cart.ScopeFrom(c.Request.Context())
		if profileFrom(c).ID != "p1" {
			t.Fatalf("expected profile in context")
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if scope != "p1/"+cart.GuestScope {
		t.Fatalf("expected guest scope for profile, got %q", scope)
	}
}

func TestProfileMiddleware_SignedInScope(t *testing.T) {
	sessions := &stubSessions{profile: identity.Profile{ID: "p1", Identity: &domain.Identity{Email: "Asha@Example.com"}}}
	var scope string
	router := middlewareRouter(sessions, func(c *gin.Context) {
		scope = cart.ScopeFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(profileTokenHeader, "tok")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if scope != "p1/user:asha@example.com" {
		t.Fatalf("unexpected scope %q", scope)
	}
}

func TestProfileMiddleware_MissingToken(t *testing.T) {
	router := middlewareRouter(&stubSessions{}, func(c *gin.Context) {
		t.Fatalf("handler must not run")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestProfileMiddleware_UnknownToken(t *testing.T) {
	sessions := &stubSessions{err: domain.ErrUnauthenticated}
	router := middlewareRouter(sessions, func(c *gin.Context) {
		t.Fatalf("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(profileTokenHeader, "nope")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestProfileMiddleware_Error(t *testing.T) {
	sessions := &stubSessions{err: errors.New("boom")}
	router := middlewareRouter(sessions, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(profileTokenHeader, "tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
