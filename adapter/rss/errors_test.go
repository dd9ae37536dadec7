package rss

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"status", &StatusError{Code: 404, Status: "404 Not Found"}, KindStatus},
		{"wrapped status", fmt.Errorf("fetch: %w", &StatusError{Code: 500, Status: "500 Internal Server Error"}), KindStatus},
		{"parse", &ParseError{Err: errors.New("EOF")}, KindParse},
		{"unknown authority", fmt.Errorf("get: %w", x509.UnknownAuthorityError{}), KindTLS},
		{"tls text", errors.New("remote error: tls: handshake failure"), KindTLS},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), KindTimeout},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, KindConnection},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, KindConnection},
		{"redirect loop", &url.Error{Op: "Get", URL: "http://example.com", Err: errors.New("stopped after 10 redirects")}, KindUnexpected},
		{"body too large", fmt.Errorf("http://example.com: %w", ErrBodyTooLarge), KindUnexpected},
		{"other", errors.New("boom"), KindUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRemediable(t *testing.T) {
	assert.True(t, Remediable(&StatusError{Code: 404, Status: "404 Not Found"}))
	assert.True(t, Remediable(x509.UnknownAuthorityError{}))
	assert.False(t, Remediable(context.DeadlineExceeded))
	assert.False(t, Remediable(&ParseError{Err: errors.New("bad")}))
}

func TestStatusErrorReason(t *testing.T) {
	assert.Equal(t, "Not Found", (&StatusError{Code: 404, Status: "404 Not Found"}).Reason())
	assert.Equal(t, "Unknown", (&StatusError{Code: 599, Status: "599"}).Reason())
	assert.Equal(t, "http error: 410 Gone", (&StatusError{Code: 410, Status: "410 Gone"}).Error())
}
