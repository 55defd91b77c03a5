package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/viajeia/viajeia/internal/stats"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics from the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			serverOverride, _ := cmd.Flags().GetString("server")

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			serverAddr := resolveServer(serverOverride, cfg)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL(serverAddr, "/api/stats"), nil)
			if err != nil {
				return err
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				printDaemonNotRunning(serverAddr, err)
				return fmt.Errorf("reach daemon at %s: %w", serverAddr, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("daemon returned %s", resp.Status)
			}

			var summary stats.Summary
			if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
				return fmt.Errorf("decode stats: %w", err)
			}

			printSummary(summary)
			return nil
		},
	}
}

func printSummary(summary stats.Summary) {
	fmt.Println("viajeia stats")
	fmt.Println("  total queries:", summary.TotalQueries)
	fmt.Println("  unique users:", summary.TotalUsers)
	fmt.Println("  queries today:", summary.QueriesToday)

	if len(summary.TopDestinations) > 0 {
		fmt.Println("top destinations")
		for _, dest := range summary.TopDestinations {
			fmt.Printf("  %s: %d\n", dest.Name, dest.Count)
		}
	}

	if len(summary.QueriesPerDay) > 0 {
		fmt.Println("recent days")
		for _, day := range summary.QueriesPerDay {
			fmt.Printf("  %s: %d\n", day.Date, day.Count)
		}
	}
}
