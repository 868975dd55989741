package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/shipping"
)

type addItemRequest struct {
	ProductID string         `json:"productId"`
	Quantity  *cart.Quantity `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *cart.Quantity `json:"quantity"`
}

type shippingRequest struct {
	PostalCode string `json:"pincode"`
}

// respondCart recomputes the quote from the persisted cart. The postal code
// comes from the query string, falling back to the remembered one.
func (h *handlers) respondCart(c *gin.Context) {
	postal, ok := c.GetQuery("pincode")
	if !ok {
		postal = h.deps.Cart.LoadPostalCode(c.Request.Context())
	}
	h.respondCartFor(c, postal)
}

func (h *handlers) respondCartFor(c *gin.Context, postal string) {
	current := h.deps.Cart.Load(c.Request.Context())
	quote := h.deps.Quoter.Summarize(current, strings.TrimSpace(postal))
	c.JSON(http.StatusOK, toCartView(quote, current.TotalQuantity(), h.deps.Currency))
}

func (h *handlers) getCart(c *gin.Context) {
	h.respondCart(c)
}

func (h *handlers) cartCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.deps.Cart.Count(c.Request.Context())})
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = req.Quantity.Int()
	}
	if _, ok := h.deps.Catalog.Product(req.ProductID); !ok {
		h.writeError(c, domain.ErrNotFound)
		return
	}
	if err := h.deps.Cart.Add(c.Request.Context(), req.ProductID, qty); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c)
}

func (h *handlers) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}
	if err := h.deps.Cart.SetQuantity(c.Request.Context(), c.Param("productId"), req.Quantity.Int()); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c)
}

func (h *handlers) removeItem(c *gin.Context) {
	if err := h.deps.Cart.Remove(c.Request.Context(), c.Param("productId")); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.Cart.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c)
}

// setShipping remembers a valid postal code and returns the repriced cart.
// Invalid codes are rejected and not stored.
func (h *handlers) setShipping(c *gin.Context) {
	var req shippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	code := strings.TrimSpace(req.PostalCode)
	if !shipping.ValidPostalCode(code) {
		h.writeError(c, domain.ErrInvalidPostalCode)
		return
	}
	if err := h.deps.Cart.SavePostalCode(c.Request.Context(), code); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCartFor(c, code)
}
