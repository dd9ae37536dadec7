package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rssdigest/domain"
	"rssdigest/internal/opml"
)

func categoriesCmd(s *session) *cobra.Command {
	var counts bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories in the feed directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := s.directory()
			if err != nil {
				return err
			}
			var perFeed map[string]int
			if counts {
				if perFeed, err = s.countArticles(cmd, dir.Feeds()); err != nil {
					return err
				}
			}

			fmt.Println("\nAvailable Categories:")
			for _, cat := range dir.Categories() {
				feeds := dir.FeedsByCategory(cat)
				if !counts {
					fmt.Printf("  • %s (%d feeds)\n", cat, len(feeds))
					continue
				}
				total := 0
				for _, f := range feeds {
					total += perFeed[f.URL]
				}
				fmt.Printf("  • %s (%d feeds, %s)\n", cat, len(feeds), articleCount(total))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&counts, "counts", false, "show article counts from the last 24 hours (slower)")
	return cmd
}

func feedsCmd(s *session) *cobra.Command {
	var (
		category string
		counts   bool
	)
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "List feeds, optionally in one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := s.directory()
			if err != nil {
				return err
			}
			feeds := dir.Feeds()
			if category != "" {
				cat, err := resolveCategory(dir, category)
				if err != nil {
					return err
				}
				feeds = dir.FeedsByCategory(cat)
				fmt.Printf("\nFeeds in category '%s':\n", cat)
			} else {
				fmt.Printf("\nAll Feeds (%d total):\n", len(feeds))
			}

			var perFeed map[string]int
			if counts {
				if perFeed, err = s.countArticles(cmd, feeds); err != nil {
					return err
				}
			}
			for _, f := range feeds {
				label := f.Title
				if f.Category != "" {
					label += " [" + f.Category + "]"
				}
				if counts {
					fmt.Printf("  • %s (%s)\n", label, articleCount(perFeed[f.URL]))
				} else {
					fmt.Printf("  • %s\n", label)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list feeds in this category")
	cmd.Flags().BoolVar(&counts, "counts", false, "show article counts from the last 24 hours (slower)")
	return cmd
}

func organizeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "organize SOURCE",
		Short: "Install SOURCE as the current all_feeds file, archiving the previous one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if _, err := opml.Load(args[0]); err != nil {
				return err
			}
			path, err := opml.Publish(".", data, opml.Stamp())
			if err != nil {
				return err
			}
			s.logger.Info("feed file organized", "path", path)
			fmt.Printf("Feed file organized successfully: %s\n", path)
			return nil
		},
	}
}

func (s *session) countArticles(cmd *cobra.Command, feeds []domain.Feed) (map[string]int, error) {
	p, err := s.pipeline(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer p.close()
	return p.agg.CountAll(cmd.Context(), feeds, s.cfg.Workers), nil
}

func articleCount(n int) string {
	if n == 0 {
		return "no articles"
	}
	return fmt.Sprintf("%d articles", n)
}
