// Package store talks to the hosted catalog store over its PostgREST API.
//
// The store enforces a hard cap on rows returned by a single read, so every
// full-table operation here pages with offset/limit. All writes are upserts
// or filtered updates; repetition is always safe.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lecture-sync/internal/httpx"
)

// MaxPageRows is the backend's per-read row cap. Requests above it are
// silently truncated by the server, so callers page at this size.
const MaxPageRows = 1000

type Client struct {
	BaseURL string // e.g. https://<project>.supabase.co
	APIKey  string
	HTTP    *http.Client
	Retry   httpx.RetryConfig
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Retry: httpx.DefaultRetryConfig(),
	}
}

func (c *Client) endpoint(table string, q url.Values) string {
	u := c.BaseURL + "/rest/v1/" + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, u string, body []byte) (*http.Request, error) {
	var rd *bytes.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, fmt.Errorf("store: build request: %w", err)
	}
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Get runs a filtered read and decodes the row list into out.
func (c *Client) Get(ctx context.Context, table string, q url.Values, out any) error {
	err := httpx.DoJSON(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, c.endpoint(table, q), nil)
	}, out, c.Retry)
	if err != nil {
		return fmt.Errorf("store: get %s: %w", table, err)
	}
	return nil
}

// Upsert writes rows with insert-or-update semantics keyed by conflictCol.
// The caller must not pass two rows with the same key: the backend rejects
// such batches.
func (c *Client) Upsert(ctx context.Context, table, conflictCol string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("store: marshal upsert batch: %w", err)
	}
	q := url.Values{}
	q.Set("on_conflict", conflictCol)

	_, _, err = httpx.DoWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodPost, c.endpoint(table, q), body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
		return req, nil
	}, c.Retry)
	if err != nil {
		return fmt.Errorf("store: upsert %s: %w", table, err)
	}
	return nil
}

// Patch updates the columns in patch on every row matching q.
func (c *Client) Patch(ctx context.Context, table string, q url.Values, patch any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("store: marshal patch: %w", err)
	}
	_, _, err = httpx.DoWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodPatch, c.endpoint(table, q), body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Prefer", "return=minimal")
		return req, nil
	}, c.Retry)
	if err != nil {
		return fmt.Errorf("store: patch %s: %w", table, err)
	}
	return nil
}

// Delete removes every row matching q.
func (c *Client) Delete(ctx context.Context, table string, q url.Values) error {
	_, _, err := httpx.DoWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodDelete, c.endpoint(table, q), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Prefer", "return=minimal")
		return req, nil
	}, c.Retry)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", table, err)
	}
	return nil
}

// Count returns the exact number of rows matching q without fetching them,
// via the Content-Range header on a HEAD request.
func (c *Client) Count(ctx context.Context, table string, q url.Values) (int, error) {
	resp, _, err := httpx.DoWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodHead, c.endpoint(table, q), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Prefer", "count=exact")
		return req, nil
	}, c.Retry)
	if err != nil {
		return 0, fmt.Errorf("store: count %s: %w", table, err)
	}

	// Content-Range: 0-24/3573 (or */3573 for an empty range)
	cr := resp.Header.Get("Content-Range")
	slash := strings.LastIndex(cr, "/")
	if slash < 0 {
		return 0, fmt.Errorf("store: count %s: missing Content-Range (got %q)", table, cr)
	}
	n, err := strconv.Atoi(cr[slash+1:])
	if err != nil {
		return 0, fmt.Errorf("store: count %s: bad Content-Range %q: %w", table, cr, err)
	}
	return n, nil
}

// InList formats ids for a PostgREST in.(...) filter. Values are quoted so
// ids containing commas survive.
func InList(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = `"` + strings.ReplaceAll(id, `"`, `\"`) + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}
