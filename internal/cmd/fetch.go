package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rssdigest/domain"
)

const displayTime = "2006-01-02 15:04"

func fetchCmd(s *session) *cobra.Command {
	var (
		category  string
		feed      string
		limit     int
		noSummary bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print articles from the last 24 hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := s.directory()
			if err != nil {
				return err
			}
			feeds, err := s.selectFeeds(dir, feed, category)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			p, err := s.pipeline(ctx)
			if err != nil {
				return err
			}
			defer p.close()

			if !asJSON {
				fmt.Printf("\nFetching articles from %d feeds...\n\n", len(feeds))
			}
			articles := p.agg.FetchAll(ctx, feeds, s.cfg.Workers)
			if limit > 0 && len(articles) > limit {
				articles = articles[:limit]
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(articles)
			}
			printArticles(articles, !noSummary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category name")
	cmd.Flags().StringVarP(&feed, "feed", "f", "", "filter by feed title")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "limit number of articles shown")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "hide article summaries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print articles as JSON")
	return cmd
}

func printArticles(articles []domain.Article, withSummary bool) {
	if len(articles) == 0 {
		fmt.Println("No articles found in the last 24 hours.")
		return
	}
	fmt.Printf("Found %d articles from the last 24 hours\n\n", len(articles))
	for _, a := range articles {
		fmt.Printf("%s | %s | %s\n", a.Published.Format(displayTime), a.Category, a.FeedTitle)
		fmt.Printf("  %s\n", a.Title)
		fmt.Printf("  %s\n", a.Link)
		if withSummary && a.Summary != "" {
			fmt.Printf("  %s\n", a.Summary)
		}
		fmt.Println()
	}
	fmt.Printf("Showing articles from %s to %s\n",
		articles[len(articles)-1].Published.Format(displayTime),
		articles[0].Published.Format(displayTime))
}
