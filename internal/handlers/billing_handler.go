package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/services/billing"
)

type BillingHandler struct {
	generator *billing.Generator
	runs      *repository.BillingRunRepository
}

func NewBillingHandler(g *billing.Generator, runs *repository.BillingRunRepository) *BillingHandler {
	return &BillingHandler{generator: g, runs: runs}
}

type generateRequest struct {
	Month           flexString `json:"month"`
	Year            flexString `json:"year"`
	StartNumber     flexString `json:"startNumber"`
	IncludeAll      bool       `json:"includeAll"`
	SelectedMembers []string   `json:"selectedMembers"`
}

type manifestEntry struct {
	InvoiceID     string      `json:"invoiceId"`
	InvoiceNumber string      `json:"invoiceNumber"`
	MemberName    string      `json:"memberName"`
	Flat          string      `json:"flat"`
	Email         string      `json:"email"`
	Total         json.Number `json:"total"`
}

func generateResponse(res *billing.Result) gin.H {
	entries := make([]manifestEntry, 0, res.Count())
	for _, e := range res.Invoices {
		entries = append(entries, manifestEntry{
			InvoiceID:     e.InvoiceID.String(),
			InvoiceNumber: e.InvoiceNumber,
			MemberName:    e.MemberName,
			Flat:          e.Flat,
			Email:         e.Email,
			Total:         money.JSON(e.Total),
		})
	}
	return gin.H{
		"message":    res.Message(),
		"invoices":   entries,
		"count":      res.Count(),
		"skipped":    res.Skipped,
		"considered": res.Considered,
		"runId":      res.RunID.String(),
	}
}

// GenerateInvoices runs a billing run for the requested month.
func (h *BillingHandler) GenerateInvoices(c *gin.Context) {
	var payload generateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	req := billing.Request{
		Month:       string(payload.Month),
		Year:        string(payload.Year),
		StartNumber: string(payload.StartNumber),
		IncludeAll:  payload.IncludeAll,
	}
	for _, raw := range payload.SelectedMembers {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID " + raw})
			return
		}
		req.MemberIDs = append(req.MemberIDs, id)
	}

	res, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		if res != nil {
			// the run stopped part way; show what was committed
			body := generateResponse(res)
			body["error"] = err.Error()
			c.JSON(statusFor(err), body)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponse(res))
}

// NextNumber previews the first number a run would use for a year.
func (h *BillingHandler) NextNumber(c *gin.Context) {
	year, err := billing.ParseYear(c.DefaultQuery("year", time.Now().Format("2006")))
	if err != nil {
		respondError(c, err)
		return
	}
	start, err := billing.ParseStartNumber(c.Query("startNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := h.generator.Allocator().Peek(c.Request.Context(), year, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":          year,
		"nextNumber":    next,
		"invoiceNumber": billing.FormatInvoiceNumber(year, next),
	})
}

func (h *BillingHandler) GetRun(c *gin.Context) {
	id, ok := pathUUID(c, "id", "billing run")
	if !ok {
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *BillingHandler) ListRuns(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	if limit == 0 {
		limit = 50
	}
	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}
