// Package provider holds one adapter per external API. Every adapter
// reshapes the upstream payload into its own minimal field set and degrades
// to an offline envelope on any failure; nothing upstream ever reaches the
// caller unfiltered or as a transport-level error.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"adventure_hunt/internal/common"

	"go.uber.org/zap"
)

// Result is an envelope plus the status the handler should write it with.
// Upstream failures stay renderable: status 200, success:false, offline_mode.
type Result struct {
	common.Envelope
	Status int `json:"-"`
}

func ok(data interface{}) Result {
	return Result{Envelope: common.Envelope{Success: true, Data: data}, Status: http.StatusOK}
}

func okWithMeta(data interface{}, meta *common.Meta) Result {
	return Result{Envelope: common.Envelope{Success: true, Data: data, Meta: meta}, Status: http.StatusOK}
}

func offline(err error, fallback interface{}) Result {
	return Result{
		Envelope: common.Envelope{Success: false, Data: fallback, Error: err.Error(), OfflineMode: true},
		Status:   http.StatusOK,
	}
}

func offlineWithMeta(err error, fallback interface{}, meta *common.Meta) Result {
	r := offline(err, fallback)
	r.Meta = meta
	return r
}

func invalid(message string) Result {
	return Result{Envelope: common.Envelope{Success: false, Error: message}, Status: http.StatusBadRequest}
}

func rateLimited() Result {
	return Result{
		Envelope: common.Envelope{Success: false, Error: "Rate limit exceeded. Please try again later."},
		Status:   http.StatusTooManyRequests,
	}
}

// Client performs outbound provider calls: one synchronous GET per
// operation, a hard timeout, no retries.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

func (c *Client) getJSON(ctx context.Context, provider, rawURL string, dest interface{}) error {
	start := time.Now()
	err := c.doGetJSON(ctx, rawURL, dest)

	fields := []zap.Field{
		zap.String("provider", provider),
		zap.String("endpoint", redactURL(rawURL)),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		common.Logger.Warn("provider request failed", append(fields, zap.Error(err))...)
		return err
	}
	common.Logger.Info("provider request", fields...)
	return nil
}

func (c *Client) doGetJSON(ctx context.Context, rawURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", common.ErrUpstream)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", common.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d: %w", resp.StatusCode, common.ErrUpstream)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("malformed response: %w", common.ErrUpstream)
	}
	return nil
}

// redactURL drops the query string so API keys never reach the log.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	u.RawQuery = ""
	return u.String()
}
