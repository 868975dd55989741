package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/pricing"
)

// SessionService issues profile tokens and tracks sign-in state.
type SessionService interface {
	Issue(ctx context.Context) (string, identity.Profile, error)
	Lookup(ctx context.Context, token string) (identity.Profile, error)
	SignIn(ctx context.Context, token, idToken string) (identity.Profile, error)
	SignOut(ctx context.Context, token string) (identity.Profile, error)
}

// CartService is the persistent cart for the request scope.
type CartService interface {
	Load(ctx context.Context) domain.Cart
	Add(ctx context.Context, productID string, qty int) error
	SetQuantity(ctx context.Context, productID string, qty int) error
	Remove(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) int
	SavePostalCode(ctx context.Context, code string) error
	LoadPostalCode(ctx context.Context) string
}

// ProductCatalog lists and resolves products.
type ProductCatalog interface {
	Product(id string) (domain.Product, bool)
	List(category string) []domain.Product
}

type Quoter interface {
	Summarize(c domain.Cart, postalCode string) pricing.Quote
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in order.PlaceOrderInput, user *domain.Identity) (order.Receipt, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Sessions    SessionService
	Cart        CartService
	Catalog     ProductCatalog
	Quoter      Quoter
	Orders      OrderService
	Metrics     http.Handler
	Ready       []ReadyCheck
	CORSOrigins []string
	// Currency labels totals of an empty cart.
	Currency string
}

type handlers struct {
	deps   Deps
	logger *logger.Logger
}

// buildRouter wires routes for the API.
func buildRouter(log *logger.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Cart == nil || deps.Catalog == nil || deps.Quoter == nil || deps.Orders == nil {
		return nil, errors.New("httpserver: sessions, cart, catalog, quoter and orders are required")
	}
	if log == nil {
		log = logger.Nop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	h := &handlers{deps: deps, logger: log}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	router.POST("/session", h.issueSession)
	router.GET("/products", h.listProducts)
	router.GET("/products/:productId", h.getProduct)

	authed := router.Group("/")
	authed.Use(h.profileMiddleware())
	{
		authed.GET("/session/me", h.me)
		authed.POST("/session/signin", h.signIn)
		authed.POST("/session/signout", h.signOut)

		authed.GET("/cart", h.getCart)
		authed.GET("/cart/count", h.cartCount)
		authed.POST("/cart/items", h.addItem)
		authed.PUT("/cart/items/:productId", h.setQuantity)
		authed.DELETE("/cart/items/:productId", h.removeItem)
		authed.DELETE("/cart", h.clearCart)
		authed.PUT("/cart/shipping", h.setShipping)

		authed.POST("/checkout", h.checkout)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", profileTokenHeader},
		ExposeHeaders: []string{profileTokenHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
