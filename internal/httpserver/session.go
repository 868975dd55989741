package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/identity"
)

type signInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

func toSessionView(p identity.Profile, token string) sessionView {
	return sessionView{
		ProfileID: p.ID,
		Token:     token,
		Identity:  p.Identity,
		SignedIn:  p.Identity != nil,
	}
}

func (h *handlers) issueSession(c *gin.Context) {
	token, p, err := h.deps.Sessions.Issue(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header(profileTokenHeader, token)
	c.JSON(http.StatusCreated, toSessionView(p, token))
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, toSessionView(profileFrom(c), ""))
}

func (h *handlers) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "idToken is required")
		return
	}
	p, err := h.deps.Sessions.SignIn(c.Request.Context(), c.GetString(profileTokenKey), req.IDToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(p, ""))
}

func (h *handlers) signOut(c *gin.Context) {
	p, err := h.deps.Sessions.SignOut(c.Request.Context(), c.GetString(profileTokenKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionView(p, ""))
}
