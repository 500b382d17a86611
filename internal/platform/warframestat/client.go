// Package warframestat is the REST client for the community drop-table feed,
// which publishes the full relic reward tables as a single JSON document.
package warframestat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// Client fetches the relic drop tables from the drops feed.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New creates a drops feed client.
//
// baseURL is the feed root, e.g. "https://drops.warframestat.us/data".
func New(baseURL string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Relics returns every relic record in the feed, one per tier, name, and
// refinement state combination.
func (c *Client) Relics(ctx context.Context) ([]domain.DropRecord, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/relics.json")
	if err != nil {
		return nil, fmt.Errorf("warframestat: get relics: %w", err)
	}
	if err := checkHTTPStatus(resp.StatusCode(), resp.Body()); err != nil {
		return nil, fmt.Errorf("warframestat: get relics: %w", err)
	}

	var feed feedDocument
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("warframestat: decode relics: %w", err)
	}

	records := make([]domain.DropRecord, 0, len(feed.Relics))
	for i := range feed.Relics {
		records = append(records, feed.Relics[i].ToDropRecord())
	}
	return records, nil
}

func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrFetchFailed, statusCode, bodyStr)
	}
}
