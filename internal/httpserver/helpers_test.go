package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/pricing"
	"storefront/internal/shipping"
	"storefront/internal/storage"
)

var testIdentity = config.IdentityConfig{Secret: "test-secret", Issuer: "storefront-identity", ProfileTTL: time.Hour}

type failingWriter struct{}

func (failingWriter) CreateOrder(context.Context, domain.Order) (string, error) {
	return "", errors.New("document store offline")
}

func (failingWriter) FindOrder(context.Context, string) (domain.Order, error) {
	return domain.Order{}, domain.ErrNotFound
}

type testEnv struct {
	router *gin.Engine
	orders *order.Memory
}

type envSettings struct {
	writer  order.Writer
	ready   []ReadyCheck
	zeroQty cart.ZeroQuantityPolicy
}

type envOption func(*envSettings)

func withWriter(w order.Writer) envOption {
	return func(s *envSettings) { s.writer = w }
}

func withReady(checks ...ReadyCheck) envOption {
	return func(s *envSettings) { s.ready = checks }
}

func withZeroQuantity(p cart.ZeroQuantityPolicy) envOption {
	return func(s *envSettings) { s.zeroQty = p }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	kv := storage.NewMemory()

	cat, err := catalog.New([]domain.Product{
		{ID: "plantable-pen", Name: "Plantable Pen Kit", PriceCents: 2000, MRPCents: 2500, Currency: "INR", Category: "Writing Instruments", SupplierID: "seedco"},
		{ID: "eco-pencil-pack", Name: "Eco Pencil Pack", PriceCents: 1500, MRPCents: 2000, Currency: "INR", Category: "Writing Instruments"},
		{ID: "bamboo-brush", Name: "Bamboo Toothbrush", PriceCents: 50000, Currency: "INR", Category: "Personal Care"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	est, err := shipping.NewEstimator(shipping.DefaultPolicy())
	if err != nil {
		t.Fatalf("estimator: %v", err)
	}
	verifier, err := identity.NewVerifier(testIdentity)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	sessions, err := identity.NewSessions(kv, verifier, testIdentity.ProfileTTL, log, nil)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	orders := order.NewMemory()
	settings := envSettings{writer: orders}
	for _, opt := range opts {
		opt(&settings)
	}

	carts, err := cart.NewStore(cart.Config{Storage: kv, ZeroQuantity: settings.zeroQty, Logger: log})
	if err != nil {
		t.Fatalf("cart store: %v", err)
	}
	quoter := pricing.NewAggregator(cat, est)

	deps := Deps{
		Sessions: sessions,
		Cart:     carts,
		Catalog:  cat,
		Quoter:   quoter,
		Ready:    settings.ready,
		Currency: "INR",
	}
	svc, err := order.NewService(order.Config{Cart: carts, Quoter: quoter, Writer: settings.writer, Logger: log})
	if err != nil {
		t.Fatalf("order service: %v", err)
	}
	deps.Orders = svc

	router, err := buildRouter(log, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{router: router, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(profileTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) newProfile(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/session", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 issuing session, got %d: %s", rec.Code, rec.Body.String())
	}
	var view sessionView
	decode(t, rec, &view)
	if view.Token == "" || view.ProfileID == "" {
		t.Fatalf("expected token and profile id, got %+v", view)
	}
	return view.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func mintIDToken(t *testing.T, subject, email string) string {
	t.Helper()
	claims := identity.Claims{
		Name:  "Asha",
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIdentity.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testIdentity.Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
