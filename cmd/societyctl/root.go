package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"society-billing-backend/internal/app"
	"society-billing-backend/internal/config"
	"society-billing-backend/internal/logger"
)

var (
	cfg      *config.Config
	services *app.Services
)

var rootCmd = &cobra.Command{
	Use:   "societyctl",
	Short: "Operator CLI for the society billing backend",
	Long: `societyctl runs billing and maintenance tasks against the society
database without going through the HTTP API. It reads the same environment
(and .env file) as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := logger.Setup(logger.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		services = app.New(db, cfg)
		return nil
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, billingCmd, statsCmd, invoicesCmd, ledgerCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Migrate(services.DB); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
