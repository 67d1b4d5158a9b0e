// Package httpclient provides the outbound HTTP clients the server uses to
// talk to third-party APIs: a retrying client with a tuned transport, and a
// circuit-breaker wrapper for upstreams that fail in bursts.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Config controls timeouts and retry behavior for an outbound client.
type Config struct {
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
}

// Client retries transient failures with exponential backoff on top of a
// connection-pooled http.Client.
type Client struct {
	http *http.Client
	cfg  Config
}

// New builds a client for a single upstream host.
func New(cfg Config) *Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				ForceAttemptHTTP2:     true,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
				MaxConnsPerHost:       cfg.MaxConnsPerHost,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: time.Second,
			},
		},
		cfg: cfg,
	}
}

// Do sends the request, retrying network errors and retryable 5xx responses
// up to MaxRetries additional times. A 5xx received on the final attempt is
// returned to the caller as a response, not an error.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	attempts := c.cfg.MaxRetries + 1
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(c.retryWait(i)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !retryableError(err) {
				return nil, fmt.Errorf("http request failed after %d attempts: %w", i+1, err)
			}
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) && i < attempts-1 {
			_ = resp.Body.Close()
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("http request failed after %d attempts: %w", attempts, lastErr)
}

// Get issues a GET through Do.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post issues a POST through Do with the given content type.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create POST request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// retryWait returns the backoff before retry n (1-based), doubling from
// RetryWaitMin and capped at RetryWaitMax.
func (c *Client) retryWait(n int) time.Duration {
	wait := c.cfg.RetryWaitMin << uint(n-1)
	if wait > c.cfg.RetryWaitMax {
		wait = c.cfg.RetryWaitMax
	}
	return wait
}

// retryableError reports whether a transport error is worth another attempt.
// Context cancellation is final; other network-level failures are retried.
func retryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryableStatus reports whether the upstream status suggests a transient
// failure. 501 is permanent.
func retryableStatus(code int) bool {
	return code >= 500 && code != http.StatusNotImplemented
}
