// Package search wraps the Google Custom Search API behind the pooled
// upstream client.
package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gsearch/gateway/internal/upstream"
)

// Client issues programmable-search queries against one configured
// engine (API key + cx + geo bias).
type Client struct {
	http *upstream.Client
	key  string
	cx   string
	geo  string
}

// New creates a search client. geo defaults to "ca" when empty, matching
// the engine's historical bias.
func New(httpClient *upstream.Client, key, cx, geo string) *Client {
	if geo == "" {
		geo = "ca"
	}
	return &Client{http: httpClient, key: key, cx: cx, geo: geo}
}

// Search proxies q to the provider and returns the raw JSON body
// unchanged. Exhausted retries surface as upstream.ErrUnavailable.
func (c *Client) Search(ctx context.Context, q string) ([]byte, error) {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("cx", c.cx)
	params.Set("gl", c.geo)
	params.Set("q", q)

	return c.http.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Query:  params,
	})
}

type searchResult struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// FirstLink extracts the first result's link from a raw provider body.
// An absent or empty items array (or a malformed body) yields "": the
// provider found nothing, which is not an error.
func FirstLink(data []byte) string {
	var res searchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return ""
	}
	if len(res.Items) == 0 {
		return ""
	}
	return res.Items[0].Link
}

// Lucky runs the query and returns the first result's link, or "" when
// the provider has no results.
func (c *Client) Lucky(ctx context.Context, q string) (string, error) {
	data, err := c.Search(ctx, q)
	if err != nil {
		return "", err
	}
	return FirstLink(data), nil
}
