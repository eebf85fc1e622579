package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"society-billing-backend/internal/models"
	"society-billing-backend/internal/repository"
	"society-billing-backend/internal/services/ledger"
)

// userHeader carries the acting user's ID, set by the auth layer in front of this API.
const userHeader = "X-User-ID"

type LedgerHandler struct {
	service *ledger.Service
	loc     *time.Location
}

func NewLedgerHandler(s *ledger.Service, loc *time.Location) *LedgerHandler {
	return &LedgerHandler{service: s, loc: loc}
}

func (h *LedgerHandler) Create(c *gin.Context) {
	var payload struct {
		Type        string          `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Date        string          `json:"date"`
		MemberID    string          `json:"member_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	in := ledger.NewEntry{
		Type:        models.LedgerType(payload.Type),
		Amount:      payload.Amount,
		Description: payload.Description,
		CreatedBy:   c.GetHeader(userHeader),
	}
	if payload.Date != "" {
		date, err := h.service.ParseDate(payload.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		in.Date = date
	}
	if payload.MemberID != "" {
		id, err := uuid.Parse(payload.MemberID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
			return
		}
		in.MemberID = &id
	}

	entry, err := h.service.Record(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "entry recorded", "entry": ledgerView(entry, h.loc)})
}

// List supports ?type=&member_id=&from=&to=&limit= with dates as YYYY-MM-DD; to is inclusive.
func (h *LedgerHandler) List(c *gin.Context) {
	f := repository.LedgerFilter{Type: models.LedgerType(c.Query("type"))}
	if f.Type != "" && !f.Type.Valid() {
		respondError(c, ledger.ErrInvalidType)
		return
	}
	memberID, ok := queryUUID(c, "member_id")
	if !ok {
		return
	}
	f.MemberID = memberID
	if raw := c.Query("from"); raw != "" {
		from, err := h.service.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		f.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := h.service.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		f.To = to.AddDate(0, 0, 1)
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	f.Limit = limit

	entries, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(entries))
	for i := range entries {
		items = append(items, ledgerView(&entries[i], h.loc))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id", "ledger entry")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted"})
}

// Upload imports a CSV file of ledger entries.
func (h *LedgerHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	res, err := h.service.ImportCSV(c.Request.Context(), file, c.GetHeader(userHeader))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":     header.Filename,
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
		"problems": res.Problems,
	})
}
