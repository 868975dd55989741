package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/order"
)

func (h *handlers) checkout(c *gin.Context) {
	var req order.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	p := profileFrom(c)
	receipt, err := h.deps.Orders.PlaceOrder(c.Request.Context(), req, p.Identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderView(receipt))
}
