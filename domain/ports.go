package domain

import (
	"context"
	"time"
)

// ResultCache stores raw fetch results keyed by source URL.
type ResultCache interface {
	Get(ctx context.Context, url string) ([]byte, bool)
	Set(ctx context.Context, url string, payload []byte) error
}

// FeedFetcher turns one feed into its recent articles.
type FeedFetcher interface {
	Fetch(ctx context.Context, f Feed) ([]Article, error)
}

// HealthProber checks one feed without extracting articles.
type HealthProber interface {
	Probe(ctx context.Context, f Feed) HealthResult
}

// Digest exposes controls of the periodic digest service.
type Digest interface {
	SetInterval(d time.Duration)
	Resize(workers int) error
	CurrentInterval() time.Duration
	CurrentWorkers() int
	Latest() ([]Article, time.Time)
}
