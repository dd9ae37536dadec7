package cmd

import (
	"context"
	"errors"
	"fmt"

	"rssdigest/adapter/cache"
	"rssdigest/adapter/postgres"
	"rssdigest/adapter/rss"
	"rssdigest/app"
	"rssdigest/domain"
	"rssdigest/internal/db"
	"rssdigest/internal/opml"
)

var errNoDirectory = errors.New("could not find OPML file, specify one with --opml")

// pipeline is the wired fetch stack for one command run.
type pipeline struct {
	agg    *app.Aggregator
	purger app.Purger
	close  func()
}

func (s *session) pipeline(ctx context.Context) (*pipeline, error) {
	store, purger, closeStore, err := s.openCache(ctx)
	if err != nil {
		return nil, err
	}
	httpFetcher := rss.NewHTTPFetcher(s.cfg.HTTPTimeout,
		rss.WithHostLimiter(rss.NewHostRateLimiter(s.cfg.HostInterval)))
	agg := app.NewAggregator(
		app.NewFetcher(httpFetcher, store, s.logger),
		app.NewProber(httpFetcher, s.logger),
		s.logger,
	)
	return &pipeline{agg: agg, purger: purger, close: closeStore}, nil
}

func (s *session) openCache(ctx context.Context) (domain.ResultCache, app.Purger, func(), error) {
	switch s.cfg.CacheBackend {
	case "", "file":
		store, err := cache.NewFileStore(s.cfg.CacheDir, s.cfg.CacheTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() {}, nil
	case "postgres":
		database, err := db.OpenDB(ctx, s.cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := postgres.NewCacheStore(database, s.cfg.CacheTTL)
		if err := store.Ensure(ctx); err != nil {
			database.Close()
			return nil, nil, nil, fmt.Errorf("db ensure failed: %w", err)
		}
		return store, store, func() { database.Close() }, nil
	case "none":
		return nil, nil, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown cache backend %q", s.cfg.CacheBackend)
	}
}

func (s *session) directory() (*opml.Directory, error) {
	path := s.cfg.OPMLPath
	if path == "" {
		p, ok := opml.Locate(".")
		if !ok {
			return nil, errNoDirectory
		}
		path = p
	}
	return opml.Load(path)
}

// selectFeeds narrows the directory to a feed title or a category when given.
func (s *session) selectFeeds(dir *opml.Directory, feedTerm, categoryTerm string) ([]domain.Feed, error) {
	switch {
	case feedTerm != "":
		feeds := dir.FindFeeds(feedTerm)
		if len(feeds) == 0 {
			return nil, fmt.Errorf("feed %q not found", feedTerm)
		}
		if len(feeds) > 1 {
			fmt.Printf("Found %d feeds matching %q\n", len(feeds), feedTerm)
		}
		return feeds, nil
	case categoryTerm != "":
		cat, err := resolveCategory(dir, categoryTerm)
		if err != nil {
			return nil, err
		}
		return dir.FeedsByCategory(cat), nil
	default:
		return dir.Feeds(), nil
	}
}

func resolveCategory(dir *opml.Directory, term string) (string, error) {
	cat, ok := dir.FindCategory(term)
	if !ok {
		if suggestions := dir.SuggestCategories(term); len(suggestions) > 0 {
			fmt.Println("Did you mean one of these?")
			for _, sug := range suggestions {
				fmt.Printf("  • %s\n", sug)
			}
		}
		return "", fmt.Errorf("category %q not found", term)
	}
	if cat != term {
		fmt.Printf("Found category: %s\n", cat)
	}
	return cat, nil
}
