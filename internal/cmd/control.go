package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rssdigest/cli/control"
)

func setIntervalCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set-interval DURATION",
		Short: "Change the rebuild interval of a running serve process (e.g. 2m)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			if d <= 0 {
				return fmt.Errorf("interval must be > 0")
			}
			old, err := control.NewClient(s.cfg.ControlAddr).SetInterval(cmd.Context(), d)
			if err != nil {
				return fmt.Errorf("could not set interval: %w", err)
			}
			if old == d {
				fmt.Printf("Interval is already set to %s (no change)\n", d)
				return nil
			}
			fmt.Printf("Interval of rebuilding the digest changed from %s to %s\n", old, d)
			return nil
		},
	}
}

func setWorkersCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set-workers COUNT",
		Short: "Change the worker count of a running serve process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n <= 0 {
				return fmt.Errorf("invalid workers count: %v", args[0])
			}
			old, err := control.NewClient(s.cfg.ControlAddr).SetWorkers(cmd.Context(), n)
			if err != nil {
				return fmt.Errorf("could not set workers: %w", err)
			}
			fmt.Printf("Number of workers changed from %d to %d\n", old, n)
			return nil
		},
	}
}

func articlesCmd(s *session) *cobra.Command {
	var (
		limit     int
		category  string
		noSummary bool
	)
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Show the latest digest built by a running serve process",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := control.NewClient(s.cfg.ControlAddr).Articles(cmd.Context(), limit, category)
			if err != nil {
				return fmt.Errorf("could not get articles: %w", err)
			}
			if resp.BuiltAt.IsZero() {
				fmt.Println("The first digest is still being built")
				return nil
			}
			fmt.Printf("Digest built at %s\n\n", resp.BuiltAt.Local().Format(displayTime))
			printArticles(resp.Articles, !noSummary)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "limit number of articles shown")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "hide article summaries")
	return cmd
}
