package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/money"
)

const dateLayout = "2006-01-02"

func invoiceView(inv *models.Invoice) gin.H {
	view := gin.H{
		"id":             inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"member_id":      inv.MemberID,
		"member_name":    inv.MemberName,
		"flat":           inv.Flat,
		"email":          inv.Email,
		"billing_period": inv.BillingPeriod.Format("2006-01"),
		"due_date":       inv.DueDate.Format(dateLayout),
		"total_amount":   money.JSON(inv.TotalAmount),
		"status":         inv.Status,
		"generated_at":   inv.GeneratedAt,
		"paid_at":        inv.PaidAt,
	}
	if inv.Items != nil {
		items := make([]gin.H, 0, len(inv.Items))
		for _, it := range inv.Items {
			items = append(items, gin.H{
				"id":          it.ID,
				"description": it.Description,
				"amount":      money.JSON(it.Amount),
			})
		}
		view["items"] = items
	}
	return view
}

func paymentView(p *models.Payment) gin.H {
	return gin.H{
		"id":         p.ID,
		"invoice_id": p.InvoiceID,
		"amount":     money.JSON(p.Amount),
		"method":     p.Method,
		"paid_on":    p.PaidOn.Format(dateLayout),
		"reference":  p.Reference,
		"status":     p.Status,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func ledgerView(e *models.LedgerEntry, loc *time.Location) gin.H {
	return gin.H{
		"id":          e.ID,
		"type":        e.Type,
		"amount":      money.JSON(e.Amount),
		"description": e.Description,
		"date":        e.Date.In(loc).Format(dateLayout),
		"member_id":   e.MemberID,
		"created_by":  e.CreatedBy,
		"created_at":  e.CreatedAt,
	}
}
