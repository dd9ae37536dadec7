package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rssdigest/adapter/rss"
	"rssdigest/domain"
	"rssdigest/internal/helper"
	"rssdigest/internal/metrics"
	"rssdigest/internal/timeparse"
)

// Prober checks whether feeds can be fetched and parsed. It never reads or writes the
// result cache.
type Prober struct {
	http   Getter
	logger *slog.Logger
	now    func() time.Time
}

func NewProber(g Getter, logger *slog.Logger) *Prober {
	return &Prober{http: g, logger: logger, now: time.Now}
}

// Probe runs one health check. A feed that only works through a known replacement URL
// is reported unhealthy with the replacement as suggested fix.
func (p *Prober) Probe(ctx context.Context, feed domain.Feed) (res domain.HealthResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("health probe panicked", "feed", feed.Title, "panic", r)
			res = unhealthy(feed, domain.OutcomeUnexpected, fmt.Sprintf("Unexpected error: %v", r), "")
		}
		metrics.RecordProbe(res.Outcome.String())
	}()

	if err := helper.ValidateFeedURL(feed.URL); err != nil {
		return unhealthy(feed, domain.OutcomeInvalidURL, "Invalid URL format (not HTTP/HTTPS)", "")
	}

	body, err := p.http.Get(ctx, feed.URL)
	if err != nil {
		if rss.Remediable(err) {
			if fixed, ok := rss.FixURL(feed.URL); ok {
				if _, ferr := p.http.Get(ctx, fixed); ferr == nil {
					return unhealthy(feed, domain.OutcomeNeedsFix,
						fmt.Sprintf("URL needs update: %s → %s", feed.URL, fixed), fixed)
				}
			}
		}
		return classifyFailure(feed, err)
	}

	parsed := rss.Parse(body)
	if !parsed.WellFormed() {
		return unhealthy(feed, domain.OutcomeParseError, fmt.Sprintf("Feed parsing error: %v", parseCause(parsed.Err)), "")
	}
	entries := rss.Entries(parsed.Feed)
	if len(entries) == 0 {
		return unhealthy(feed, domain.OutcomeNoEntries, "Feed has no entries", "")
	}

	cutoff := p.now().UTC().Add(-Window)
	recent := 0
	for _, e := range entries {
		if t, ok := timeparse.Normalize(e); ok && t.After(cutoff) {
			recent++
		}
	}
	return domain.HealthResult{
		Feed:               feed,
		Healthy:            true,
		Message:            "OK",
		RecentArticleCount: recent,
		Outcome:            domain.OutcomeHealthy,
	}
}

func classifyFailure(feed domain.Feed, err error) domain.HealthResult {
	switch rss.Classify(err) {
	case rss.KindTLS:
		if fixed, ok := rss.FixURL(feed.URL); ok {
			return unhealthy(feed, domain.OutcomeSSL, fmt.Sprintf("SSL Error (try: %s): %v", fixed, err), fixed)
		}
		return unhealthy(feed, domain.OutcomeSSL, fmt.Sprintf("SSL Error: %v", err), "")
	case rss.KindTimeout:
		return unhealthy(feed, domain.OutcomeTimeout, "Timeout - feed took too long to respond", "")
	case rss.KindConnection:
		return unhealthy(feed, domain.OutcomeConnection, fmt.Sprintf("Connection Error: %v", err), "")
	case rss.KindStatus:
		var se *rss.StatusError
		errors.As(err, &se)
		if se.Code == http.StatusForbidden {
			return unhealthy(feed, domain.OutcomeForbidden, "HTTP Error 403: Forbidden (may be blocking bots)", "")
		}
		return unhealthy(feed, domain.OutcomeHTTPStatus, fmt.Sprintf("HTTP Error %d: %s", se.Code, se.Reason()), "")
	default:
		return unhealthy(feed, domain.OutcomeUnexpected, fmt.Sprintf("Unexpected error: %v", err), "")
	}
}

func parseCause(err error) error {
	var pe *rss.ParseError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func unhealthy(feed domain.Feed, outcome domain.Outcome, msg, fix string) domain.HealthResult {
	return domain.HealthResult{
		Feed:            feed,
		Message:         msg,
		SuggestedFixURL: fix,
		Outcome:         outcome,
	}
}
