package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Income and expense ledger",
}

var importAs string

var ledgerImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import ledger entries (date,type,amount,description[,member_id])",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := services.Ledger.ImportCSV(cmd.Context(), f, importAs)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range res.Problems {
			fmt.Fprintln(out, p)
		}
		fmt.Fprintf(out, "inserted %d, skipped %d\n", res.Inserted, res.Skipped)
		return nil
	},
}

func init() {
	ledgerImportCmd.Flags().StringVar(&importAs, "as", "societyctl", "value recorded as created_by")
	ledgerCmd.AddCommand(ledgerImportCmd)
}
