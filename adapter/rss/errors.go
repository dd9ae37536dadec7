package rss

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a failed fetch attempt.
type Kind int

const (
	KindNone Kind = iota
	KindTLS
	KindTimeout
	KindConnection
	KindStatus
	KindParse
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTLS:
		return "tls"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindStatus:
		return "http_status"
	case KindParse:
		return "parse"
	default:
		return "unexpected"
	}
}

// StatusError is returned for responses with a 4xx or 5xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %s", e.Status)
}

// Reason returns the status text without the numeric code.
func (e *StatusError) Reason() string {
	if r := strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprint(e.Code))); r != "" {
		return r
	}
	return "Unknown"
}

// ParseError wraps a payload gofeed could not read, even after sanitizing.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse feed: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Classify maps err onto the failure taxonomy used by the fetcher and the prober.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var se *StatusError
	if errors.As(err, &se) {
		return KindStatus
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return KindParse
	}
	if isTLSError(err) {
		return KindTLS
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return KindConnection
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		return KindConnection
	}
	return KindUnexpected
}

// Remediable reports whether a URL fix is worth trying after err.
func Remediable(err error) bool {
	k := Classify(err)
	return k == KindTLS || k == KindStatus
}

func isTLSError(err error) bool {
	var (
		rh  tls.RecordHeaderError
		ae  tls.AlertError
		cve *tls.CertificateVerificationError
		ua  x509.UnknownAuthorityError
		he  x509.HostnameError
		ci  x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &rh), errors.As(err, &ae), errors.As(err, &cve),
		errors.As(err, &ua), errors.As(err, &he), errors.As(err, &ci):
		return true
	}
	return strings.Contains(err.Error(), "tls: ")
}
