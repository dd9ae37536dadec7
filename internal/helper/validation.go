package helper

import (
	"errors"
	"strings"
)

var ErrInvalidURL = errors.New("invalid URL format (not HTTP/HTTPS)")

// ValidateFeedURL accepts only http(s) URLs. Anything containing '@' is treated as a
// mailbox or keyword subscription rather than a feed.
func ValidateFeedURL(feedURL string) error {
	if !strings.HasPrefix(feedURL, "http://") && !strings.HasPrefix(feedURL, "https://") {
		return ErrInvalidURL
	}
	if strings.Contains(feedURL, "@") {
		return ErrInvalidURL
	}
	return nil
}
