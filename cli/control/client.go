package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type Client struct {
	addr string
	http *http.Client
}

func NewClient(addr string) *Client {
	return &Client{addr: addr, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) SetInterval(ctx context.Context, d time.Duration) (time.Duration, error) {
	var r struct {
		Old string `json:"old"`
		New string `json:"new"`
	}
	if err := c.post(ctx, "/set-interval", map[string]any{"duration": d.String()}, &r); err != nil {
		return 0, err
	}
	if r.Old != "" {
		if old, err := time.ParseDuration(r.Old); err == nil {
			return old, nil
		}
	}
	return 0, nil
}

func (c *Client) SetWorkers(ctx context.Context, n int) (int, error) {
	var r struct {
		Old int `json:"old"`
		New int `json:"new"`
	}
	if err := c.post(ctx, "/set-workers", map[string]any{"workers": n}, &r); err != nil {
		return 0, err
	}
	return r.Old, nil
}

// Articles fetches the latest digest from a running serve process.
func (c *Client) Articles(ctx context.Context, limit int, category string) (ArticlesResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if category != "" {
		q.Set("category", category)
	}
	u := "http://" + c.addr + "/articles"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var out ArticlesResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return out, fmt.Errorf("server error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode articles: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, into any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+c.addr+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("server error: %s", resp.Status)
	}
	_ = json.NewDecoder(resp.Body).Decode(into)
	return nil
}
