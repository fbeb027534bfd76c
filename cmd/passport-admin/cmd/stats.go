package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/propertypassport/api/internal/infra/postgres"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform-wide statistics",
	RunE:  runStats,
}

type platformStats struct {
	Users      int64     `json:"users"`
	Properties int64     `json:"properties"`
	Documents  int64     `json:"documents"`
	Media      int64     `json:"media"`
	OpenIssues int64     `json:"open_issues"`
	ComputedAt time.Time `json:"computed_at"`
}

func runStats(cmd *cobra.Command, args []string) error {
	db, _ := mustDB()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := postgres.NewUserRepository(db)
	properties := postgres.NewPropertyRepository(db)
	documents := postgres.NewDocumentRepository(db)
	media := postgres.NewMediaRepository(db)
	flags := postgres.NewFlagRepository(db)

	var stats platformStats
	var err error

	if stats.Users, err = users.Count(ctx); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if stats.Properties, err = properties.Count(ctx); err != nil {
		return fmt.Errorf("failed to count properties: %w", err)
	}
	if stats.Documents, err = documents.Count(ctx); err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	if stats.Media, err = media.Count(ctx); err != nil {
		return fmt.Errorf("failed to count media: %w", err)
	}
	if stats.OpenIssues, err = flags.CountOpen(ctx); err != nil {
		return fmt.Errorf("failed to count open issues: %w", err)
	}
	stats.ComputedAt = time.Now().UTC()

	if flagOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println("Property Passport Platform")
	fmt.Printf("  Users:       %d\n", stats.Users)
	fmt.Printf("  Properties:  %d\n", stats.Properties)
	fmt.Printf("  Documents:   %d\n", stats.Documents)
	fmt.Printf("  Media:       %d\n", stats.Media)
	fmt.Printf("  Open issues: %d\n", stats.OpenIssues)
	return nil
}
