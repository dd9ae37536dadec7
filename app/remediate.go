package app

import (
	"context"

	"rssdigest/adapter/rss"
	"rssdigest/internal/metrics"
)

// Getter performs a single GET attempt.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// getWithFix fetches feedURL and, when that fails with a TLS or HTTP status error and a
// known replacement exists, retries once on the replacement. fixedURL is non-empty only
// when the replacement produced the body. On failure the original error is returned.
func getWithFix(ctx context.Context, g Getter, feedURL string) (body []byte, fixedURL string, err error) {
	body, err = g.Get(ctx, feedURL)
	if err == nil {
		return body, "", nil
	}
	if !rss.Remediable(err) {
		return nil, "", err
	}
	fixed, ok := rss.FixURL(feedURL)
	if !ok {
		return nil, "", err
	}
	body, ferr := g.Get(ctx, fixed)
	if ferr != nil {
		metrics.RecordRemediation("failed")
		return nil, "", err
	}
	metrics.RecordRemediation("ok")
	return body, fixed, nil
}
