package payment

import (
	"EduStream/internal/app_errors"
	"EduStream/internal/delivery/http/controllers/middleware"
	"EduStream/internal/models"
	"EduStream/pkg/logger"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID, amountCents int64) (sessionID, redirectURL string, err error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Session(ctx context.Context, id string) (*models.PaymentSession, error)
}

type PaymentHandler struct {
	log     logger.Log
	service PaymentService
}

func NewPaymentHandler(l logger.Log, s PaymentService) *PaymentHandler {
	return &PaymentHandler{
		log:     l,
		service: s,
	}
}

type checkoutRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required"`
}

func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input checkoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID, redirectURL, err := h.service.CreateCheckoutSession(c.Request.Context(), userID, input.AmountCents)
	if err != nil {
		h.log.ErrorErr("checkout session creation failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"url":        redirectURL,
	})
}

// Webhook receives signed events and acknowledges them once the recorded
// state is updated. Signature failures are rejected so forged calls cannot
// mark sessions paid.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, app_errors.ErrPaymentSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("webhook handling failed", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentHandler) SessionStatus(c *gin.Context) {
	id := c.Param("session_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	session, err := h.service.Session(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, app_errors.ErrPaymentSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"status":     session.Status,
	})
}
