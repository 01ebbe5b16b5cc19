package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListReviews(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	reviews, err := h.repos.Reviews.FindAll(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}
