// Package callback notifies the Invoice Service of terminal cancellation
// outcomes.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/facturacion/internal/pac"
)

const callbackPath = "/api/consulta-facturas/cancelacion/callback"

type payload struct {
	UUID   string `json:"uuid"`
	Status string `json:"status"`
}

type Client struct {
	url    string
	client *http.Client
}

// New returns a client posting to the callback endpoint under baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		url:    strings.TrimRight(baseURL, "/") + callbackPath,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify makes one POST attempt. Any non-2xx answer is an error.
func (c *Client) Notify(ctx context.Context, uuid string, status pac.Status) error {
	body, err := json.Marshal(payload{UUID: uuid, Status: string(status)})
	if err != nil {
		return fmt.Errorf("encoding callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.url)
	}

	return nil
}
