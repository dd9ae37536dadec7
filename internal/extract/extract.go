// Package extract builds the short plain-text summary shown for an article.
package extract

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"rssdigest/adapter/rss"
)

const (
	MaxSummaryRunes = 300
	ellipsis        = "..."
)

// bluemonday policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Summary picks the first non-empty of summary, description and the first content
// block, strips markup and caps the result at MaxSummaryRunes.
func Summary(e rss.Entry) string {
	raw := e.Summary
	if raw == "" {
		raw = e.Description
	}
	if raw == "" && len(e.Content) > 0 {
		raw = e.Content[0]
	}
	return Truncate(StripTags(raw), MaxSummaryRunes)
}

// StripTags removes every markup tag. It is best-effort and does not validate.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Truncate cuts s to max runes, replacing the tail with an ellipsis when it is cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}
