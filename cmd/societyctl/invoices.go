package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"society-billing-backend/internal/money"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Invoice maintenance",
}

var markOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Mark pending invoices past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := services.Payments.MarkOverdue(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d invoice(s) marked overdue\n", n)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every invoice total against its line items",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := services.Invoices.Verify(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, inv := range report.Mismatched {
			fmt.Fprintf(out, "%s: total %s, items %s\n", inv.InvoiceNumber,
				inv.TotalAmount.StringFixed(money.Places), inv.ItemsTotal().StringFixed(money.Places))
		}
		fmt.Fprintf(out, "checked %d invoice(s), %d mismatched\n", report.Checked, len(report.Mismatched))
		if len(report.Mismatched) > 0 {
			return fmt.Errorf("%d invoice(s) failed verification", len(report.Mismatched))
		}
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(markOverdueCmd, verifyCmd)
}
