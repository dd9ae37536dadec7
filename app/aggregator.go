package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"rssdigest/domain"
	"rssdigest/internal/metrics"
)

// DefaultConcurrency is the worker pool size used when none is given.
const DefaultConcurrency = 20

// Aggregator fans feeds out over a bounded worker pool. A failing or panicking feed
// never affects the others.
type Aggregator struct {
	fetcher domain.FeedFetcher
	prober  domain.HealthProber
	logger  *slog.Logger
}

func NewAggregator(fetcher domain.FeedFetcher, prober domain.HealthProber, logger *slog.Logger) *Aggregator {
	return &Aggregator{fetcher: fetcher, prober: prober, logger: logger}
}

// FetchAll fetches every feed, deduplicates the combined articles and sorts them newest first.
func (a *Aggregator) FetchAll(ctx context.Context, feeds []domain.Feed, maxConcurrency int) []domain.Article {
	start := time.Now()
	var (
		mu  sync.Mutex
		all []domain.Article
	)
	a.run(ctx, feeds, maxConcurrency, func(ctx context.Context, f domain.Feed) {
		articles := a.fetchOne(ctx, f)
		if len(articles) == 0 {
			return
		}
		mu.Lock()
		all = append(all, articles...)
		mu.Unlock()
	})

	unique := Dedupe(a.logger, all)
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Published.After(unique[j].Published)
	})
	metrics.ObserveBatch("fetch", time.Since(start).Seconds())
	a.logger.Info("fetch batch finished", "feeds", len(feeds), "articles", len(unique), "duration", time.Since(start))
	return unique
}

// ProbeAll health-checks every feed. Results arrive in completion order, one per feed.
func (a *Aggregator) ProbeAll(ctx context.Context, feeds []domain.Feed, maxConcurrency int) []domain.HealthResult {
	start := time.Now()
	var (
		mu      sync.Mutex
		results = make([]domain.HealthResult, 0, len(feeds))
	)
	a.run(ctx, feeds, maxConcurrency, func(ctx context.Context, f domain.Feed) {
		res := a.probeOne(ctx, f)
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	})
	metrics.ObserveBatch("probe", time.Since(start).Seconds())
	return results
}

// CountAll returns, per feed URL, how many articles the feed published within Window.
// Counts are taken before deduplication.
func (a *Aggregator) CountAll(ctx context.Context, feeds []domain.Feed, maxConcurrency int) map[string]int {
	var mu sync.Mutex
	counts := make(map[string]int, len(feeds))
	a.run(ctx, feeds, maxConcurrency, func(ctx context.Context, f domain.Feed) {
		n := len(a.fetchOne(ctx, f))
		mu.Lock()
		counts[f.URL] = n
		mu.Unlock()
	})
	return counts
}

func (a *Aggregator) fetchOne(ctx context.Context, f domain.Feed) (articles []domain.Article) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("feed fetch panicked", "feed", f.Title, "url", f.URL, "panic", r)
			articles = nil
		}
	}()
	articles, err := a.fetcher.Fetch(ctx, f)
	if err != nil {
		a.logger.Warn("error fetching feed", "feed", f.Title, "url", f.URL, "error", err)
		return nil
	}
	return articles
}

func (a *Aggregator) probeOne(ctx context.Context, f domain.Feed) (res domain.HealthResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("feed probe panicked", "feed", f.Title, "url", f.URL, "panic", r)
			res = unhealthy(f, domain.OutcomeUnexpected, fmt.Sprintf("Unexpected error: %v", r), "")
		}
	}()
	return a.prober.Probe(ctx, f)
}

// run dispatches one task per feed to at most workers goroutines and returns once every
// task has finished. Workers drain the queue even after ctx is done so no feed is dropped.
func (a *Aggregator) run(ctx context.Context, feeds []domain.Feed, workers int, task func(context.Context, domain.Feed)) {
	if len(feeds) == 0 {
		return
	}
	if workers <= 0 {
		workers = DefaultConcurrency
	}
	if workers > len(feeds) {
		workers = len(feeds)
	}

	jobs := make(chan domain.Feed)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			worker(ctx, jobs, task)
			return nil
		})
	}
	for _, f := range feeds {
		jobs <- f
	}
	close(jobs)
	_ = g.Wait()
}

func worker(ctx context.Context, jobs <-chan domain.Feed, task func(context.Context, domain.Feed)) {
	for f := range jobs {
		task(ctx, f)
	}
}
