package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFeedURL(t *testing.T) {
	for _, ok := range []string{"http://example.com/rss", "https://example.com/feed.xml?x=1"} {
		assert.NoError(t, ValidateFeedURL(ok), ok)
	}
	for _, bad := range []string{"", "example.com/rss", "ftp://example.com/rss", "feed://example.com", "mailto:me@example.com", "https://me@example.com/rss"} {
		assert.ErrorIs(t, ValidateFeedURL(bad), ErrInvalidURL, bad)
	}
}
