package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"society-billing-backend/internal/app"
	handler "society-billing-backend/internal/handlers"
)

func RegisterRoutes(r *gin.Engine, svc *app.Services, loc *time.Location) {
	billingHandler := handler.NewBillingHandler(svc.Billing, svc.Runs)
	invoiceHandler := handler.NewInvoiceHandler(svc.Invoices, svc.Payments)
	paymentHandler := handler.NewPaymentHandler(svc.Payments)
	ledgerHandler := handler.NewLedgerHandler(svc.Ledger, loc)
	statsHandler := handler.NewStatsHandler(svc.Stats)
	rosterHandler := handler.NewRosterHandler(svc.Members, svc.Charges)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Billing runs
	billing := api.Group("/billing")
	billing.POST("/invoices/generate", billingHandler.GenerateInvoices)
	billing.GET("/next-number", billingHandler.NextNumber)
	billing.GET("/runs", billingHandler.ListRuns)
	billing.GET("/runs/:id", billingHandler.GetRun)

	// Invoice routes
	invoices := api.Group("/invoices")
	{
		invoices.GET("", invoiceHandler.List)
		invoices.GET("/integrity", invoiceHandler.Integrity)
		invoices.POST("/mark-overdue", invoiceHandler.MarkOverdue)
		invoices.GET("/:id", invoiceHandler.Get)
	}

	payments := api.Group("/payments")
	payments.POST("", paymentHandler.Create)
	payments.GET("/:id", paymentHandler.Get)
	payments.PUT("/:id/status", paymentHandler.UpdateStatus)

	ledger := api.Group("/ledger")
	ledger.POST("", ledgerHandler.Create)
	ledger.GET("", ledgerHandler.List)
	ledger.POST("/upload", ledgerHandler.Upload)
	ledger.DELETE("/:id", ledgerHandler.Delete)

	api.GET("/stats", statsHandler.Get)
	api.GET("/stats/monthly", statsHandler.Monthly)

	api.GET("/members", rosterHandler.ListMembers)
	api.GET("/charges", rosterHandler.ListCharges)
}
