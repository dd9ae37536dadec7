package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"rssdigest/adapter/rss"
)

// fakeGetter serves canned bodies or errors per URL and counts calls.
type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  map[string]int
	panics bool
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{bodies: map[string]string{}, errs: map[string]error{}, calls: map[string]int{}}
}

func (g *fakeGetter) Get(_ context.Context, url string) ([]byte, error) {
	g.mu.Lock()
	g.calls[url]++
	body, hasBody := g.bodies[url]
	err := g.errs[url]
	g.mu.Unlock()

	if g.panics {
		panic("getter exploded")
	}
	if err != nil {
		return nil, err
	}
	if !hasBody {
		return nil, &rss.StatusError{Code: 404, Status: "404 Not Found"}
	}
	return []byte(body), nil
}

func (g *fakeGetter) callCount(url string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[url]
}

// memCache is an in-memory domain.ResultCache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[url]
	return d, ok
}

func (c *memCache) Set(_ context.Context, url string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[url] = payload
	return nil
}

func (c *memCache) has(url string) bool {
	_, ok := c.Get(context.Background(), url)
	return ok
}

type item struct {
	title   string
	link    string
	desc    string
	pubDate string
}

func ago(d time.Duration) string {
	return time.Now().UTC().Add(-d).Format(time.RFC1123Z)
}

func rssFeed(items ...item) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test</title>`)
	for _, it := range items {
		b.WriteString("<item>")
		fmt.Fprintf(&b, "<title>%s</title><link>%s</link>", it.title, it.link)
		if it.desc != "" {
			fmt.Fprintf(&b, "<description><![CDATA[%s]]></description>", it.desc)
		}
		if it.pubDate != "" {
			fmt.Fprintf(&b, "<pubDate>%s</pubDate>", it.pubDate)
		}
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}
