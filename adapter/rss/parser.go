package rss

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parsed is the result of reading a payload. Malformed is set when the payload only
// parsed after sanitizing or did not parse at all; Err carries the strict parse error.
type Parsed struct {
	Feed      *gofeed.Feed
	Malformed bool
	Err       error
}

// WellFormed reports whether the payload parsed cleanly and may be cached.
func (p Parsed) WellFormed() bool { return !p.Malformed }

var entityRe = regexp.MustCompile(`&(#[0-9]+;|#[xX][0-9a-fA-F]+;|[a-zA-Z][a-zA-Z0-9]*;)?`)

// Parse reads an RSS, Atom or JSON feed. A payload that fails strict parsing is retried
// once after sanitizing; if that also fails the returned feed has no items.
func Parse(payload []byte) Parsed {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(payload))
	if err == nil {
		return Parsed{Feed: feed}
	}
	if recovered, rerr := gofeed.NewParser().ParseString(sanitize(string(payload))); rerr == nil {
		return Parsed{Feed: recovered, Malformed: true, Err: &ParseError{Err: err}}
	}
	return Parsed{Feed: &gofeed.Feed{}, Malformed: true, Err: &ParseError{Err: err}}
}

// sanitize drops characters XML 1.0 forbids and escapes bare ampersands.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
	return entityRe.ReplaceAllStringFunc(s, func(m string) string {
		if m == "&" {
			return "&amp;"
		}
		return m
	})
}

// EncodeFeed serializes a parsed feed for the result cache.
func EncodeFeed(feed *gofeed.Feed) ([]byte, error) {
	return json.Marshal(feed)
}

// DecodeFeed restores a feed previously stored with EncodeFeed.
func DecodeFeed(data []byte) (*gofeed.Feed, error) {
	var feed gofeed.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
