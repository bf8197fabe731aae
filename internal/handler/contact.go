package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/eclora/eclora-api/internal/mailer"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// sendContact forwards a contact form submission to the store admin. Delivery
// failures are logged but never surfaced: the client always sees success.
func (h *Handler) sendContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email, subject and message are required")
		return
	}

	err := h.mail.SendContact(c.Request.Context(), mailer.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		zctx.From(c.Request.Context()).Warn("Contact mail delivery failed",
			zap.String("from", req.Email), zap.Error(err))
	}
	respondMessage(c, http.StatusOK, "Message sent successfully")
}
