package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"watchshop/internal/apperrors"
	"watchshop/internal/models"
	"watchshop/internal/payment"
)

type intentRequest struct {
	Price float64 `json:"price" binding:"required,gt=0"`
}

// CreatePaymentIntent returns the client secret of a new card payment intent.
// Processor errors keep their status and message.
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var req intentRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	intent, err := h.bridge.CreateIntent(ctx, req.Price)
	if err != nil {
		if status, msg, ok := payment.ProcessorError(err); ok {
			c.AbortWithStatusJSON(status, apperrors.Response{Error: true, Message: msg})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// SettlePayment records a completed payment and removes the purchased cart items.
func (h *Handler) SettlePayment(c *gin.Context) {
	var record models.PaymentRecord
	if err := bindJSON(c, &record); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := h.bridge.Settle(ctx, &record)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"insertedResult": newInsertAck(res.InsertedResult),
		"deletedResult":  newDeleteAck(res.DeletedResult),
	})
}

// PaymentHistory lists the payments recorded for the email in the path.
func (h *Handler) PaymentHistory(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	records, err := h.repos.Payments.FindByEmail(ctx, c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
