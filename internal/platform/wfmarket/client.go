// Package wfmarket is the REST client for the player trading market API. It
// serves per-item order books and closed-trade statistics under
// /items/{slug}/{resource}, every response wrapped in a {"payload": ...}
// envelope.
package wfmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/alanyoungcy/relicbot/internal/domain"
)

// Client fetches market payloads for items and relics.
//
// The market throttles aggressively. A 429 response is retried with
// exponential backoff a bounded number of times; once the retries are spent
// the request fails with domain.ErrRateLimited and the caller decides what
// to do with that one entity. No other status is ever retried.
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

// WithRetry overrides the 429 retry policy: count is the number of retries
// after the initial attempt, wait and maxWait bound the backoff window.
func WithRetry(count int, wait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.
			SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(maxWait)
	}
}

// New creates a market client.
//
// baseURL is the API root, e.g. "https://api.warframe.market/v1".
func New(baseURL string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetRetryCount(3).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(8*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		})

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Payload fetches /items/{slug}/{kind} and returns the envelope's payload
// member undecoded. The caller knows which shape to expect from kind.
func (c *Client) Payload(ctx context.Context, slug string, kind domain.PayloadKind) (json.RawMessage, error) {
	path := fmt.Sprintf("/items/%s/%s", url.PathEscape(slug), string(kind))

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("wfmarket: get %s %s: %w", kind, slug, err)
	}
	if err := checkHTTPStatus(resp.StatusCode(), resp.Body()); err != nil {
		return nil, fmt.Errorf("wfmarket: get %s %s: %w", kind, slug, err)
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("wfmarket: decode %s %s: %w", kind, slug, err)
	}
	if len(envelope.Payload) == 0 {
		return nil, fmt.Errorf("wfmarket: decode %s %s: %w: envelope has no payload", kind, slug, domain.ErrFetchFailed)
	}
	return envelope.Payload, nil
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
