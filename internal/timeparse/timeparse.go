// Package timeparse resolves the publication instant of a feed entry.
package timeparse

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"rssdigest/adapter/rss"
)

// usZones maps the US abbreviations feeds commonly emit to their fixed offsets.
var usZones = map[string]int{
	"PST": -8 * 3600,
	"PDT": -7 * 3600,
	"MST": -7 * 3600,
	"MDT": -6 * 3600,
	"CST": -6 * 3600,
	"CDT": -5 * 3600,
	"EST": -5 * 3600,
	"EDT": -4 * 3600,
}

// Normalize returns the entry's publication time in UTC. Structured fields are tried
// first (published, updated, created), then the text fields (published, updated,
// created, pubDate). It reports false when nothing parses.
//
// A structured value whose raw text ends in a US zone abbreviation is ignored in favour
// of the raw text: the feed parser has already resolved it against the wrong offset.
func Normalize(e rss.Entry) (time.Time, bool) {
	structured := []struct {
		parsed *time.Time
		raw    string
	}{
		{e.PublishedParsed, e.Published},
		{e.UpdatedParsed, e.Updated},
		{e.CreatedParsed, e.Created},
	}
	for _, f := range structured {
		if hasUSZone(f.raw) {
			if t, ok := ParseString(f.raw); ok {
				return t, true
			}
		}
		if f.parsed == nil || f.parsed.IsZero() {
			continue
		}
		return fixZone(*f.parsed).UTC(), true
	}
	for _, s := range []string{e.Published, e.Updated, e.Created, e.PubDate} {
		if t, ok := ParseString(s); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseString parses a free-form date. Strings without a zone are taken as UTC.
func ParseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return fixZone(t).UTC(), true
}

// hasUSZone reports whether s ends in one of the usZones abbreviations.
func hasUSZone(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	last := strings.ToUpper(strings.Trim(fields[len(fields)-1], "()"))
	_, ok := usZones[last]
	return ok
}

// fixZone repairs times parsed against an abbreviation Go did not know, which come back
// with the abbreviation as zone name and a zero offset.
func fixZone(t time.Time) time.Time {
	name, offset := t.Zone()
	want, ok := usZones[strings.ToUpper(name)]
	if !ok || offset != 0 {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, want))
}
