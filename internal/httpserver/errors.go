package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/shipping"
	"storefront/internal/storage"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps domain errors to status codes. Anything unrecognised is a 500
// with a generic message; the cause is logged, never returned.
func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "Please fill all the fields correctly.", Fields: verr.Fields})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Sign-in required or session expired."})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found."})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "Your cart is empty."})
	case errors.Is(err, domain.ErrInvalidPostalCode):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: shipping.InvalidMessage})
	case errors.Is(err, domain.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, errorResponse{Error: "Your order is already being placed."})
	case errors.Is(err, domain.ErrUpstream):
		h.logger.Error(c.Request.Context(), "http: upstream failure", err, "path", c.FullPath())
		c.JSON(http.StatusBadGateway, errorResponse{Error: "Error placing order. Please try again."})
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, storage.ErrQuotaExceeded):
		h.logger.Error(c.Request.Context(), "http: storage failure", err, "path", c.FullPath())
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "Your cart could not be saved. Please try again."})
	default:
		h.logger.Error(c.Request.Context(), "http: unexpected error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong."})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
