package rss

import "strings"

// URLFix maps a relocated domain fragment to its current replacement.
type URLFix struct {
	Old string
	New string
}

// KnownURLFixes is consulted in order; the first contained fragment wins.
var KnownURLFixes = []URLFix{
	{Old: "newsrss.bbc.co.uk", New: "feeds.bbci.co.uk"},
	{Old: "www.physorg.com", New: "phys.org"},
	{Old: "rss.dw-world.de", New: "rss.dw.com"},
	{Old: "feeds.christianitytoday.com", New: "www.christianitytoday.com/feeds"},
}

// FixURL returns the remediated URL and true when a known fix applies.
func FixURL(feedURL string) (string, bool) {
	for _, fix := range KnownURLFixes {
		if strings.Contains(feedURL, fix.Old) {
			fixed := strings.ReplaceAll(feedURL, fix.Old, fix.New)
			return fixed, fixed != feedURL
		}
	}
	return feedURL, false
}
