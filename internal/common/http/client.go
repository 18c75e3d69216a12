// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"product-recommender/internal/common/metrics"
)

var (
	ErrTimeout = errors.New("UPSTREAM_TIMEOUT")
	ErrDecode  = errors.New("UPSTREAM_DECODE_FAILED")
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// Client is an outbound JSON client bound to one named upstream. Every call records
// upstream_requests_total and upstream_request_duration_seconds under that name.
type Client struct {
	httpClient *http.Client
	upstream   string
}

func NewClient(upstream string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		upstream: upstream,
	}
}

// GetJSON issues GET rawURL?params and decodes a 2xx JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.doJSON(ctx, req, out)
}

// PostJSON marshals body, POSTs it with the given headers and decodes a 2xx JSON reply into out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, headers map[string]string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.doJSON(ctx, req, out)
}

func (c *Client) doJSON(ctx context.Context, req *http.Request, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(c.upstream).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = RedactURL(urlErr.URL)
		}
		if IsTimeout(ctx, err) {
			c.count(metrics.OutcomeTimeout)
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.count(metrics.OutcomeError)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.count(metrics.OutcomeStatus)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.count(metrics.OutcomeDecode)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	c.count(metrics.OutcomeSuccess)
	return nil
}

// secretParams are query parameters whose values never appear in errors or logs.
var secretParams = []string{"key", "api_key", "apikey", "token", "access_token"}

// RedactURL masks credential query parameters in rawURL.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	redacted := false
	for _, name := range secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			redacted = true
		}
	}
	if !redacted {
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) count(outcome string) {
	metrics.UpstreamRequests.WithLabelValues(c.upstream, outcome).Inc()
}

// IsTimeout reports whether err came from a deadline, either the client's or the context's.
func IsTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout")
}
