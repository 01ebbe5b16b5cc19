package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"watchshop/internal/models"
)

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	products, err := h.repos.Products.FindAll(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct writes the product, or null when no product has the id.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	product, err := h.repos.Products.FindByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var p models.Product
	if err := bindJSON(c, &p); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Products.Insert(ctx, &p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newInsertAck(res))
}

// UpsertProduct sets name, price, image and details on the product, creating it
// under the given id when absent.
func (h *Handler) UpsertProduct(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var p models.Product
	if err := bindJSON(c, &p); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Products.Upsert(ctx, id, &p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUpdateAck(res))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.repos.Products.Delete(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newDeleteAck(res))
}
