// Package clients holds the HTTP clients the order service fans out with.
// Both targets are internal services that speak the shared response
// envelope; calls are best-effort and the caller decides whether a failure
// matters.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/veltmart/backend/internal/apperr"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// postJSON sends a body and interprets the envelope. Network errors map to
// Unavailable; an envelope with success=false surfaces its error string.
func postJSON(ctx context.Context, c *http.Client, url string, body any, headers map[string]string) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "downstream unreachable", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	if !env.Success {
		return fmt.Errorf("%s: %s (status %d)", url, env.Error, resp.StatusCode)
	}
	return nil
}
