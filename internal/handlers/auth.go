package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchshop/internal/auth"
	"watchshop/internal/logs"
)

// IssueToken signs a token for the posted identity. No credential is checked: the
// client has already authenticated the user with its identity provider.
func (h *Handler) IssueToken(c *gin.Context) {
	var id auth.Identity
	if err := bindJSON(c, &id); err != nil {
		fail(c, err)
		return
	}

	token, err := h.tokens.Issue(id)
	if err != nil {
		fail(c, err)
		return
	}

	logs.FromContext(c.Request.Context()).Info("token issued", slog.String("email", id.Email))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
