package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// Client represents a client to communicate with the generate service.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Result is the fully read response of a generate call.
type Result struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// NewBackendClient creates a new Client for the given endpoint. A zero timeout
// means the request waits for as long as the service takes.
func NewBackendClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Forward sends the HTTP request to the endpoint and returns the response.
func (c *Client) Forward(ctx context.Context, method string, headers http.Header, body io.Reader) (*http.Response, error) {
	// Create a new HTTP request with context.
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, err
	}

	// Copy headers.
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	// Send the request to the service.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Generate POSTs the request as JSON and reads the whole response. A non-200
// status is not an error here; callers decide what to do with it.
func (c *Client) Generate(ctx context.Context, request payload.Request) (*Result, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	requestID := uuid.NewString()
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	headers.Set("X-Request-ID", requestID)

	log.Debugf("POST %s (request %s, %d bytes)", c.endpoint, requestID, len(body))
	start := time.Now()

	resp, err := c.Forward(ctx, http.MethodPost, headers, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	log.Debugf("Request %s finished with %d in %s (%d bytes)", requestID, resp.StatusCode, time.Since(start), len(respBody))

	return &Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}
