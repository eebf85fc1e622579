package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"society-billing-backend/internal/money"
)

var statsMember string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print ledger totals and month-over-month trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		var memberID *uuid.UUID
		if statsMember != "" {
			id, err := uuid.Parse(statsMember)
			if err != nil {
				return fmt.Errorf("invalid member ID %q", statsMember)
			}
			memberID = &id
		}

		s, err := services.Stats.Stats(cmd.Context(), memberID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "total income      %s\n", s.TotalIncome.StringFixed(money.Places))
		fmt.Fprintf(out, "total expense     %s\n", s.TotalExpense.StringFixed(money.Places))
		fmt.Fprintf(out, "monthly income    %s (%+d%%)\n", s.MonthlyIncome.StringFixed(money.Places), s.IncomeTrend)
		fmt.Fprintf(out, "monthly expense   %s (%+d%%)\n", s.MonthlyExpense.StringFixed(money.Places), s.ExpenseTrend)
		fmt.Fprintf(out, "balance trend     %+d%%\n", s.BalanceTrend)
		fmt.Fprintf(out, "transactions      %d\n", s.TotalTransactions)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsMember, "member", "", "limit to one member's entries")
}
