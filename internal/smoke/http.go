package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// requestIDHeader tags every smoke request so server logs can be correlated.
const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
	runID   string
	seq     atomic.Int64
}

func newHTTPClient(baseURL, runID string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		runID:   runID,
	}
}

// response is a fully read HTTP response.
type response struct {
	Status int
	Body   []byte
}

// do sends method path with an optional raw JSON body and reads the reply.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) (*response, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, c.runID+"-"+strconv.FormatInt(c.seq.Add(1), 10))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	return &response{Status: resp.StatusCode, Body: data}, nil
}

// expect checks the status and decodes the body into v when v is non-nil.
func (r *response) expect(status int, v any) error {
	if r.Status != status {
		return fmt.Errorf("status %d, want %d: %s", r.Status, status, bytes.TrimSpace(r.Body))
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}
