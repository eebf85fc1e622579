package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/services/billing"
	"society-billing-backend/internal/services/invoices"
	"society-billing-backend/internal/services/payments"
)

type InvoiceHandler struct {
	invoices *invoices.Service
	payments *payments.Service
}

func NewInvoiceHandler(inv *invoices.Service, pay *payments.Service) *InvoiceHandler {
	return &InvoiceHandler{invoices: inv, payments: pay}
}

// List supports ?year=&month=&status=pending,overdue&member_id=&q=
func (h *InvoiceHandler) List(c *gin.Context) {
	var f repository.InvoiceFilter

	if raw := c.Query("year"); raw != "" {
		year, err := billing.ParseYear(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		f.Year = year
	}
	if raw := c.Query("month"); raw != "" {
		month, err := billing.ParseMonth(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		f.Month = month
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			f.Statuses = append(f.Statuses, models.InvoiceStatus(strings.TrimSpace(s)))
		}
	}
	memberID, ok := queryUUID(c, "member_id")
	if !ok {
		return
	}
	f.MemberID = memberID
	f.Query = c.Query("q")
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	f.Limit = limit

	list, err := h.invoices.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, invoiceView(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", "invoice")
	if !ok {
		return
	}
	detail, err := h.invoices.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view := invoiceView(detail.Invoice)
	pays := make([]gin.H, 0, len(detail.Payments))
	for i := range detail.Payments {
		pays = append(pays, paymentView(&detail.Payments[i]))
	}
	view["payments"] = pays
	c.JSON(http.StatusOK, view)
}

// Integrity reports invoices whose total differs from their items.
func (h *InvoiceHandler) Integrity(c *gin.Context) {
	report, err := h.invoices.Verify(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	bad := make([]string, 0, len(report.Mismatched))
	for _, inv := range report.Mismatched {
		bad = append(bad, inv.InvoiceNumber)
	}
	c.JSON(http.StatusOK, gin.H{
		"checked":    report.Checked,
		"mismatched": bad,
		"ok":         len(bad) == 0,
	})
}

func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	n, err := h.payments.MarkOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "overdue invoices updated", "invoices_updated": n})
}
