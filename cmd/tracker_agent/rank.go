package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/credits"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/evaluation"
	"github.com/jonathan/job-tracker/internal/logger"
)

var (
	rankUserID     string
	rankConfigPath string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Recompute priority buckets for a user's postings",
	Long:  `Re-rank every posting of a user against the current score population. Manual priority overrides are preserved.`,
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankUserID, "user", "", "User UUID (required)")
	rankCmd.Flags().StringVar(&rankConfigPath, "config", "", "Path to JSON config file")
	_ = rankCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(rankCmd)
}

func runRank(_ *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(rankUserID)
	if err != nil {
		return fmt.Errorf("invalid user UUID: %w", err)
	}

	cfg, err := loadMergedConfig(rankConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	// Ranking is a pure score computation; no gate or model client needed.
	orchestrator := evaluation.New(database, credits.NewGate(database, log), nil, nil, log)
	if err := orchestrator.RecomputeUserPriorities(ctx, userID); err != nil {
		return fmt.Errorf("failed to recompute priorities: %w", err)
	}

	fmt.Printf("Priorities recomputed for user %s\n", userID)
	return nil
}
