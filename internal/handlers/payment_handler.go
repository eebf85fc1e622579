package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/services/payments"
)

type PaymentHandler struct {
	service *payments.Service
}

func NewPaymentHandler(s *payments.Service) *PaymentHandler {
	return &PaymentHandler{service: s}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var payload struct {
		InvoiceID string          `json:"invoice_id"`
		Amount    decimal.Decimal `json:"amount"`
		Method    string          `json:"method"`
		PaidOn    string          `json:"paid_on"` // YYYY-MM-DD, optional
		Reference string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}
	var paidOn time.Time
	if payload.PaidOn != "" {
		paidOn, err = time.Parse(dateLayout, payload.PaidOn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_on date, expected YYYY-MM-DD"})
			return
		}
	}

	p, err := h.service.Create(c.Request.Context(), payments.NewPayment{
		InvoiceID: invoiceID,
		Amount:    payload.Amount,
		Method:    payload.Method,
		PaidOn:    paidOn,
		Reference: payload.Reference,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "payment recorded", "payment": paymentView(p)})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", "payment")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentView(p))
}

// UpdateStatus completes or fails a pending payment.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id", "payment")
	if !ok {
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), id, models.PaymentStatus(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment " + string(p.Status), "payment": paymentView(p)})
}
