package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/payment"
)

type PaymentsHandler struct {
	client *payment.Client
}

func NewPaymentsHandler(client *payment.Client) *PaymentsHandler {
	return &PaymentsHandler{client: client}
}

// CreateOrder opens a gateway order for the given amount. Amounts are in the
// minor currency unit, so 2500 means 25.00 INR.
func (h *PaymentsHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "amount must be a positive integer in paise"})
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	if strings.TrimSpace(req.Receipt) == "" {
		req.Receipt = "rcpt_" + uuid.New().String()
	}

	order, err := h.client.CreateOrder(req.Amount, req.Currency, req.Receipt, req.Notes)
	if err != nil {
		log.Printf("Failed to create payment order: %v", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to create payment order"})
		return
	}

	c.JSON(http.StatusCreated, models.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   order.Status,
	})
}

// Status reports whether the gateway client is configured. Only the
// publishable key id is exposed, never the secret.
func (h *PaymentsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"gateway":    "razorpay",
		"configured": h.client != nil && h.client.KeyID() != "",
		"keyId":      h.client.KeyID(),
	})
}
