package domain

import "time"

// Feed describes one source as handed over by the feed directory.
type Feed struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

type Article struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	FeedTitle string    `json:"feed_title"`
	Category  string    `json:"category"`
}

// Outcome tags how a health probe ended.
type Outcome int

const (
	OutcomeHealthy Outcome = iota
	OutcomeInvalidURL
	OutcomeNeedsFix
	OutcomeSSL
	OutcomeTimeout
	OutcomeConnection
	OutcomeForbidden
	OutcomeHTTPStatus
	OutcomeParseError
	OutcomeNoEntries
	OutcomeUnexpected
)

var outcomeNames = map[Outcome]string{
	OutcomeHealthy:    "healthy",
	OutcomeInvalidURL: "invalid_url",
	OutcomeNeedsFix:   "needs_fix",
	OutcomeSSL:        "ssl_error",
	OutcomeTimeout:    "timeout",
	OutcomeConnection: "connection_error",
	OutcomeForbidden:  "forbidden",
	OutcomeHTTPStatus: "http_error",
	OutcomeParseError: "parse_error",
	OutcomeNoEntries:  "no_entries",
	OutcomeUnexpected: "unexpected",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// HealthResult is produced once per feed per health-check run.
type HealthResult struct {
	Feed               Feed
	Healthy            bool
	Message            string
	RecentArticleCount int
	SuggestedFixURL    string
	Outcome            Outcome
}
