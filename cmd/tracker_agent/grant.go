package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/db"
)

var (
	grantUserID     string
	grantAmount     int
	grantConfigPath string
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Create a credit ledger for a user",
	Long:  `Create a credit ledger with an initial grant for a user. Does nothing if the user already has a ledger.`,
	RunE:  runGrant,
}

func init() {
	grantCmd.Flags().StringVar(&grantUserID, "user", "", "User UUID (required)")
	grantCmd.Flags().IntVar(&grantAmount, "credits", 10, "Initial credit grant")
	grantCmd.Flags().StringVar(&grantConfigPath, "config", "", "Path to JSON config file")
	_ = grantCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(grantCmd)
}

func runGrant(_ *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(grantUserID)
	if err != nil {
		return fmt.Errorf("invalid user UUID: %w", err)
	}
	if grantAmount < 0 {
		return fmt.Errorf("credit grant must be non-negative")
	}

	cfg, err := loadMergedConfig(grantConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureLedger(ctx, userID, grantAmount); err != nil {
		return err
	}

	ledger, err := database.Ledger(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Ledger for user %s: %d remaining, %d used\n", userID, ledger.Remaining, ledger.Used)
	return nil
}
