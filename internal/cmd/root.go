// Package cmd holds the rssdigest command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"rssdigest/internal/config"
	"rssdigest/internal/logger"
)

// session carries what every command needs once flags are parsed.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	closeLog func() error

	configFile string
	opmlPath   string
	logLevel   string
	workers    int
}

// Root builds the rssdigest command tree.
func Root() *cobra.Command {
	s := &session{}
	root := &cobra.Command{
		Use:           "rssdigest",
		Short:         "24-hour digest of many RSS/Atom feeds",
		Long:          "Fetches a directory of feeds concurrently, keeps the last 24 hours of articles, removes duplicates and checks feed health.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if s.closeLog != nil {
				return s.closeLog()
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.configFile, "config", "", "YAML file with configuration keys")
	pf.StringVar(&s.opmlPath, "opml", "", "path to the OPML feed directory (auto-detected if empty)")
	pf.StringVar(&s.logLevel, "log-level", "", "debug, info, warn or error")
	pf.IntVarP(&s.workers, "workers", "w", 0, "concurrent feed requests")

	root.AddCommand(
		fetchCmd(s),
		healthCmd(s),
		categoriesCmd(s),
		feedsCmd(s),
		organizeCmd(s),
		serveCmd(s),
		setIntervalCmd(s),
		setWorkersCmd(s),
		articlesCmd(s),
	)
	return root
}

func (s *session) setup() error {
	if s.configFile != "" {
		cfg, err := config.LoadFile(s.configFile)
		if err != nil {
			return err
		}
		s.cfg = cfg
	} else {
		s.cfg = config.Load()
	}
	if s.opmlPath != "" {
		s.cfg.OPMLPath = s.opmlPath
	}
	if s.logLevel != "" {
		s.cfg.LogLevel = s.logLevel
	}
	if s.workers > 0 {
		s.cfg.Workers = s.workers
	}

	l, closeLog, err := logger.New(s.cfg.LogLevel, s.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	s.logger = l
	s.closeLog = closeLog
	slog.SetDefault(l)
	return nil
}
