package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"society-billing-backend/internal/money"
	"society-billing-backend/internal/services/billing"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Billing runs",
}

var billingRunFlags struct {
	month   string
	year    string
	start   string
	all     bool
	members []string
}

var billingRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate invoices for a month",
	Example: `  societyctl billing run --month march --year 2025 --all
  societyctl billing run --month 3 --year 2025 --start 40 --member <id> --member <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := billing.Request{
			Month:       billingRunFlags.month,
			Year:        billingRunFlags.year,
			StartNumber: billingRunFlags.start,
			IncludeAll:  billingRunFlags.all,
		}
		for _, raw := range billingRunFlags.members {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fmt.Errorf("invalid member ID %q", raw)
			}
			req.MemberIDs = append(req.MemberIDs, id)
		}

		res, err := services.Billing.Generate(cmd.Context(), req)
		if res != nil {
			printResult(cmd, res)
		}
		return err
	},
}

func printResult(cmd *cobra.Command, res *billing.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tMEMBER\tFLAT\tTOTAL")
	for _, e := range res.Invoices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.InvoiceNumber, e.MemberName, e.Flat, e.Total.StringFixed(money.Places))
	}
	w.Flush()

	for _, s := range res.Skipped {
		fmt.Fprintf(out, "skipped %s (%s): %s\n", s.MemberName, s.MemberID, s.Reason)
	}
	fmt.Fprintf(out, "run %s\n", res.RunID)
}

var billingNextCmd = &cobra.Command{
	Use:   "next-number <year>",
	Short: "Show the next invoice number for a year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := billing.ParseYear(args[0])
		if err != nil {
			return err
		}
		next, err := services.Billing.Allocator().Peek(cmd.Context(), year, 1)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), billing.FormatInvoiceNumber(year, next))
		return nil
	},
}

func init() {
	f := billingRunCmd.Flags()
	f.StringVar(&billingRunFlags.month, "month", "", "billing month, name or 1-12")
	f.StringVar(&billingRunFlags.year, "year", "", "billing year")
	f.StringVar(&billingRunFlags.start, "start", "1", "lowest invoice sequence number to use")
	f.BoolVar(&billingRunFlags.all, "all", false, "bill every active member")
	f.StringSliceVar(&billingRunFlags.members, "member", nil, "member ID to bill (repeatable)")
	billingRunCmd.MarkFlagRequired("month")
	billingRunCmd.MarkFlagRequired("year")

	billingCmd.AddCommand(billingRunCmd, billingNextCmd)
}
