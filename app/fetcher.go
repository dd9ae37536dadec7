package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"rssdigest/adapter/rss"
	"rssdigest/domain"
	"rssdigest/internal/extract"
	"rssdigest/internal/helper"
	"rssdigest/internal/metrics"
	"rssdigest/internal/timeparse"
)

// Window is how far back an article may be published and still be reported.
const Window = 24 * time.Hour

type Fetcher struct {
	http   Getter
	cache  domain.ResultCache
	logger *slog.Logger
	now    func() time.Time
}

// NewFetcher wires a fetcher. cache may be nil to disable caching.
func NewFetcher(g Getter, cache domain.ResultCache, logger *slog.Logger) *Fetcher {
	return &Fetcher{http: g, cache: cache, logger: logger, now: time.Now}
}

// Fetch returns the feed's articles published within Window. URLs that are not
// http(s) feeds yield no articles and no error.
func (f *Fetcher) Fetch(ctx context.Context, feed domain.Feed) ([]domain.Article, error) {
	if err := helper.ValidateFeedURL(feed.URL); err != nil {
		metrics.RecordFetch("skipped")
		f.logger.Debug("skipping non-feed URL", "feed", feed.Title, "url", feed.URL)
		return nil, nil
	}
	parsed, err := f.load(ctx, feed.URL)
	if err != nil {
		metrics.RecordFetchError(rss.Classify(err).String())
		return nil, fmt.Errorf("fetch %s: %w", feed.URL, err)
	}
	return f.articles(feed, rss.Entries(parsed)), nil
}

func (f *Fetcher) load(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(ctx, feedURL); ok {
			feed, err := rss.DecodeFeed(data)
			if err == nil {
				metrics.RecordFetch("cache_hit")
				return feed, nil
			}
			f.logger.Debug("ignoring undecodable cache entry", "url", feedURL, "error", err)
		}
	}

	body, fixedURL, err := getWithFix(ctx, f.http, feedURL)
	if err != nil {
		return nil, err
	}
	cacheURL := feedURL
	if fixedURL != "" {
		f.logger.Info("feed served from replacement URL", "url", feedURL, "fixed_url", fixedURL)
		cacheURL = fixedURL
	}

	p := rss.Parse(body)
	if !p.WellFormed() {
		if len(p.Feed.Items) == 0 {
			return nil, p.Err
		}
		f.logger.Warn("feed is malformed, not caching", "url", cacheURL, "error", p.Err)
		metrics.RecordFetch("ok")
		return p.Feed, nil
	}
	if f.cache != nil {
		if data, err := rss.EncodeFeed(p.Feed); err != nil {
			f.logger.Warn("could not encode feed for cache", "url", cacheURL, "error", err)
		} else if err := f.cache.Set(ctx, cacheURL, data); err != nil {
			f.logger.Warn("could not write cache entry", "url", cacheURL, "error", err)
		}
	}
	metrics.RecordFetch("ok")
	return p.Feed, nil
}

func (f *Fetcher) articles(feed domain.Feed, entries []rss.Entry) []domain.Article {
	cutoff := f.now().UTC().Add(-Window)
	var out []domain.Article
	for _, e := range entries {
		published, ok := timeparse.Normalize(e)
		if !ok || !published.After(cutoff) {
			continue
		}
		title := e.Title
		if title == "" {
			title = "No title"
		}
		out = append(out, domain.Article{
			Title:     title,
			Summary:   extract.Summary(e),
			Link:      e.Link,
			Published: published,
			FeedTitle: feed.Title,
			Category:  feed.Category,
		})
	}
	return out
}
