package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eclora/eclora-api/internal/domain/order"
)

type checkoutItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
}

type checkoutRequest struct {
	Items []checkoutItemRequest `json:"items" binding:"required,min=1"`
	Email string                `json:"email" binding:"required,email"`
}

// createCheckoutSession starts a hosted checkout for the given cart. The
// order itself is created separately by the storefront with the returned
// session ID, and marked paid by the webhook.
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "items and email are required")
		return
	}

	items := make([]order.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		}
	}

	sess, err := h.payments.CreateCheckoutSession(c.Request.Context(), &order.Order{
		Items: items,
		Email: req.Email,
	})
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", gin.H{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}

// paymentWebhook verifies the raw payload signature and marks the matching
// order paid on checkout completion. The body must not be parsed before
// verification.
func (h *Handler) paymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable payload")
		return
	}

	event, err := h.payments.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid webhook signature")
		return
	}
	if event == nil {
		// Event type we don't handle; acknowledge it.
		respondMessage(c, http.StatusOK, "ignored")
		return
	}

	if err := h.orders.ConfirmPayment(c.Request.Context(), event.SessionID); err != nil {
		zctx.From(c.Request.Context()).Error("Confirming payment",
			zap.String("session_id", event.SessionID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	respondMessage(c, http.StatusOK, "received")
}
