package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 20 << 20
)

// UserAgent identifies requests as a desktop browser; several publishers reject
// generic clients with 403.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var defaultHeaders = map[string]string{
	"User-Agent":      UserAgent,
	"Accept":          "application/rss+xml, application/xml, text/xml, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

// ErrBodyTooLarge is returned when a response exceeds the fetcher's size limit.
var ErrBodyTooLarge = errors.New("response body too large")

type HTTPFetcher struct {
	client  *http.Client
	limiter *HostRateLimiter
	maxBody int64
}

type Option func(*HTTPFetcher)

// WithClient replaces the underlying client. Its Timeout is left untouched.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithMaxBodySize caps the bytes read from one response.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBody = n
		}
	}
}

// WithHostLimiter spaces requests to the same host.
func WithHostLimiter(l *HostRateLimiter) Option {
	return func(f *HTTPFetcher) { f.limiter = l }
}

func NewHTTPFetcher(timeout time.Duration, opts ...Option) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &HTTPFetcher{client: &http.Client{Timeout: timeout}, maxBody: maxBodyBytes}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get performs one GET attempt and returns the response body.
// Responses with status >= 400 are returned as *StatusError.
func (f *HTTPFetcher) Get(ctx context.Context, feedURL string) ([]byte, error) {
	if err := f.limiter.Wait(ctx, feedURL); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", feedURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", feedURL, ErrBodyTooLarge, f.maxBody)
	}
	return body, nil
}
