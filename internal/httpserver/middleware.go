package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/identity"
)

const (
	profileTokenHeader = "X-Profile-Token"
	profileKey         = "profile"
	profileTokenKey    = "profileToken"
)

// profileMiddleware resolves the browser profile token and scopes the
// request context to that profile's cart.
func (h *handlers) profileMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := profileToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Missing profile token."})
			return
		}
		p, err := h.deps.Sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}

		ctx := cart.WithScope(c.Request.Context(), p.Scope())
		ctx = h.logger.WithField(ctx, "profile_id", p.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(profileKey, p)
		c.Set(profileTokenKey, token)
		c.Next()
	}
}

func profileToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(profileTokenHeader)); t != "" {
		return t
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func profileFrom(c *gin.Context) identity.Profile {
	v, _ := c.Get(profileKey)
	p, _ := v.(identity.Profile)
	return p
}
