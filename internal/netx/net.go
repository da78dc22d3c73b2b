// Package netx contains the JSON-over-HTTP plumbing shared by the gateway
// client.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxResponseBytes bounds how much of a response body is read into memory.
const maxResponseBytes = 10 << 20

// ErrResponseTooLarge is returned when a body exceeds maxResponseBytes.
var ErrResponseTooLarge = errors.New("response too large")

// Response is the raw outcome of a JSON request.
type Response struct {
	StatusCode int
	Body       []byte
}

// PostJSON marshals payload, POSTs it to url with the given headers and
// returns the status code and body. Transport errors are returned unwrapped so
// callers can classify them (timeouts vs. other network failures).
func PostJSON(ctx context.Context, c *http.Client, url string, headers http.Header, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxResponseBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBytes)
	}

	return &Response{StatusCode: resp.StatusCode, Body: b}, nil
}
