package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rssdigest/internal/opml"
	"rssdigest/internal/report"
)

const groupPreview = 10

func healthCmd(s *session) *cobra.Command {
	var (
		export        string
		fixURLs       bool
		removeDefunct bool
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check every feed and report the broken ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := s.directory()
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

			feeds := dir.Feeds()
			fmt.Printf("\nChecking %d feeds...\n\n", len(feeds))
			results := p.agg.ProbeAll(ctx, feeds, s.cfg.Workers)

			groups := report.GroupProblems(results)
			problems := 0
			for _, g := range groups {
				problems += len(g.Results)
			}
			fmt.Printf("Healthy feeds: %d\n", len(results)-problems)
			fmt.Printf("Problem feeds: %d\n", problems)

			if problems == 0 {
				fmt.Println("All feeds are healthy!")
			}
			for _, g := range groups {
				fmt.Printf("\n%s: (%d feeds)\n", g.Kind, len(g.Results))
				for i, r := range g.Results {
					if i == groupPreview {
						fmt.Printf("  ... and %d more\n", len(g.Results)-groupPreview)
						break
					}
					fmt.Printf("  • %s [%s]\n    %s\n    %s\n", r.Feed.Title, r.Feed.Category, r.Feed.URL, r.Message)
					if r.SuggestedFixURL != "" {
						fmt.Printf("    → Suggested fix: %s\n", r.SuggestedFixURL)
					}
				}
			}

			fixes := report.Fixes(results)
			if len(fixes) > 0 {
				fmt.Printf("\nFound %d feeds with suggested URL fixes\n", len(fixes))
			}
			if fixURLs && len(fixes) > 0 {
				if n := dir.ApplyFixes(fixes); n > 0 {
					path, err := dir.Save(opml.Stamp())
					if err != nil {
						return err
					}
					fmt.Printf("Fixed %d feed URLs, updated feed file: %s\n", n, path)
				} else {
					fmt.Println("No URLs were fixed")
				}
			}
			if export != "" {
				path, err := report.Export(export, results)
				if err != nil {
					return err
				}
				fmt.Printf("\nHealth check results exported to: %s\n", path)
			}
			if removeDefunct && problems > 0 {
				defunct := make(map[string]struct{}, problems)
				for _, g := range groups {
					for _, r := range g.Results {
						defunct[r.Feed.Title] = struct{}{}
					}
				}
				n := dir.RemoveFeeds(defunct)
				path, err := dir.Save(opml.Stamp())
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d feeds, updated feed file: %s\n", n, path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write results to a .json or .csv file")
	cmd.Flags().BoolVar(&fixURLs, "fix-urls", false, "rewrite feeds with a known replacement URL into a new OPML file")
	cmd.Flags().BoolVar(&removeDefunct, "remove-defunct", false, "drop problem feeds into a new OPML file")
	return cmd
}
