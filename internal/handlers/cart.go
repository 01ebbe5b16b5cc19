package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"watchshop/internal/models"
)

// CartParam is the path parameter shared by the cart routes. It holds the owner
// email on reads and the cart item id on deletes.
const CartParam = "cart"

func (h *Handler) AddToCart(c *gin.Context) {
	var item models.CartItem
	if err := bindJSON(c, &item); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Carts.Insert(ctx, &item)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newInsertAck(res))
}

// ListCart returns the cart items owned by the email in the path. The route is
// expected to sit behind the ownership guard.
func (h *Handler) ListCart(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	items, err := h.repos.Carts.FindByEmail(ctx, c.Param(CartParam))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, err := objectIDParam(c, CartParam)
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Carts.Delete(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDeleteAck(res))
}
