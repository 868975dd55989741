package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handlers) listProducts(c *gin.Context) {
	products := h.deps.Catalog.List(c.Query("category"))
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, ok := h.deps.Catalog.Product(c.Param("productId"))
	if !ok {
		h.writeError(c, domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toProductView(p))
}
