package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"society-billing-backend/internal/money"
	"society-billing-backend/internal/repository"
)

// RosterHandler exposes read-only views of the member roster and the charge
// catalog, used to fill in the billing run form.
type RosterHandler struct {
	members *repository.MemberRepository
	charges *repository.ChargeRepository
}

func NewRosterHandler(members *repository.MemberRepository, charges *repository.ChargeRepository) *RosterHandler {
	return &RosterHandler{members: members, charges: charges}
}

func (h *RosterHandler) ListMembers(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	members, err := h.members.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": members, "count": len(members)})
}

func (h *RosterHandler) ListCharges(c *gin.Context) {
	charges, err := h.charges.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(charges))
	for _, ch := range charges {
		items = append(items, gin.H{
			"id":          ch.ID,
			"description": ch.Description,
			"amount":      money.JSON(ch.Amount),
			"active":      ch.Active,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
