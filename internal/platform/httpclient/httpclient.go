// Package httpclient provides the shared HTTP transport policy for upstream
// calls: bounded retries with a static delay, and an optional circuit breaker.
package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dErrors "cm-gateway/pkg/domain-errors"
	"cm-gateway/pkg/platform/circuit"
)

// Doer abstracts *http.Client so transports can be composed and tests can
// substitute fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Retrying wraps a Doer with a fixed-attempt retry loop. Transport errors and
// 5xx responses are retried after a static delay; 4xx responses are returned
// immediately since repeating the same bad request cannot succeed.
type Retrying struct {
	base    Doer
	retries int
	delay   time.Duration
	logger  *slog.Logger
}

// NewRetrying builds a retrying Doer. retries is the number of additional
// attempts after the first; a value of 0 disables retrying.
func NewRetrying(base Doer, retries int, delay time.Duration, logger *slog.Logger) *Retrying {
	if base == nil {
		base = http.DefaultClient
	}
	if retries < 0 {
		retries = 0
	}
	return &Retrying{base: base, retries: retries, delay: delay, logger: logger}
}

func (c *Retrying) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			if req.Body != nil && req.GetBody != nil {
				body, rewindErr := req.GetBody()
				if rewindErr != nil {
					return nil, fmt.Errorf("rewind request body: %w", rewindErr)
				}
				req.Body = body
			}

			if c.logger != nil {
				c.logger.Warn("retrying upstream request",
					"method", req.Method,
					"url", req.URL.String(),
					"attempt", attempt,
				)
			}

			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(c.delay):
			}
		}

		resp, err = c.base.Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode >= http.StatusInternalServerError && attempt < c.retries {
			// The body of the final attempt stays open so the caller can
			// still read the upstream error message.
			resp.Body.Close()
			continue
		}
		return resp, nil
	}

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Breaking wraps a Doer with a circuit breaker. While the circuit is open all
// calls fail fast with an upstream error; successful responses below 500 close
// it again.
type Breaking struct {
	base    Doer
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreaking(base Doer, breaker *circuit.Breaker, logger *slog.Logger) *Breaking {
	if base == nil {
		base = http.DefaultClient
	}
	return &Breaking{base: base, breaker: breaker, logger: logger}
}

func (c *Breaking) Do(req *http.Request) (*http.Response, error) {
	if c.breaker != nil && c.breaker.IsOpen() {
		return nil, dErrors.Upstream(http.StatusServiceUnavailable,
			fmt.Sprintf("%s circuit open", c.breaker.Name()))
	}

	resp, err := c.base.Do(req)
	if err != nil || resp.StatusCode >= http.StatusInternalServerError {
		if c.breaker != nil {
			if opened := c.breaker.RecordFailure(); opened && c.logger != nil {
				c.logger.Error("circuit opened", "name", c.breaker.Name())
			}
		}
		return resp, err
	}

	if c.breaker != nil {
		if closed := c.breaker.RecordSuccess(); closed && c.logger != nil {
			c.logger.Info("circuit closed", "name", c.breaker.Name())
		}
	}
	return resp, nil
}

// ErrorFromResponse reads a non-2xx response body and converts it into an
// upstream error. The message is located by precedence: a nested
// {"error":{"message":...}} object, then a top-level "message", then "detail",
// then the raw body text.
func ErrorFromResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dErrors.Upstream(resp.StatusCode, resp.Status)
	}

	msg := extractMessage(body)
	if msg == "" {
		msg = resp.Status
	}
	return dErrors.Upstream(resp.StatusCode, msg)
}

func extractMessage(body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return strings.TrimSpace(string(body))
	}

	if nested, ok := parsed["error"].(map[string]any); ok {
		if msg, ok := nested["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := parsed["message"].(string); ok && msg != "" {
		return msg
	}
	if detail, ok := parsed["detail"].(string); ok && detail != "" {
		return detail
	}
	return strings.TrimSpace(string(body))
}
