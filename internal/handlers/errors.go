package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"society-billing-backend/internal/services/billing"
	"society-billing-backend/internal/services/invoices"
	"society-billing-backend/internal/services/ledger"
	"society-billing-backend/internal/services/payments"
)

var (
	badRequest = []error{
		billing.ErrInvalidPeriod,
		billing.ErrInvalidStartNumber,
		billing.ErrNoActiveCharges,
		billing.ErrNoMembersSelected,
		payments.ErrInvalidAmount,
		payments.ErrInvalidStatus,
		payments.ErrAmountMismatch,
		ledger.ErrInvalidType,
		ledger.ErrInvalidAmount,
		ledger.ErrMissingDate,
	}
	notFound = []error{
		gorm.ErrRecordNotFound,
		payments.ErrPaymentNotFound,
		payments.ErrInvoiceNotFound,
		invoices.ErrNotFound,
		ledger.ErrNotFound,
	}
	conflict = []error{
		billing.ErrSequenceConflict,
		billing.ErrSequenceContention,
		payments.ErrInvalidTransition,
		payments.ErrInvoiceAlreadyPaid,
	}
)

func statusFor(err error) int {
	for _, group := range []struct {
		status int
		errs   []error
	}{
		{http.StatusBadRequest, badRequest},
		{http.StatusNotFound, notFound},
		{http.StatusConflict, conflict},
	} {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err with the status its kind maps to. Internal errors
// are recorded on the context for the request logger.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
