package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/getscript/provider"
	"github.com/kbukum/getscript/resilience"
)

// Client sends requests described by Request. It satisfies
// provider.RequestResponse[Request, *Response].
type Client struct {
	httpClient *http.Client
	config     Config
	resilience *provider.ResilienceState
}

// Option customizes a Client after construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client, e.g. for tests.
// The configured timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		hc.Timeout = c.config.Timeout
		c.httpClient = hc
	}
}

// New creates a client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config:     cfg,
		resilience: provider.BuildResilience(cfg.Resilience),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do executes req and returns the complete response. A non-2xx status is
// returned as *Error together with the response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return provider.ExecuteWithResilience(ctx, c.resilience, func() (*Response, error) {
		return c.execute(ctx, req)
	})
}

func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	limit := c.config.MaxResponseBytes
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
	}
	if int64(len(body)) > limit {
		return nil, tooLargeError(limit)
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

func classifyTransportError(ctx context.Context, err error) *Error {
	var netErr interface{ Timeout() bool }
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(err)
	}
	return connectionError(err)
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, requestError("encode body: %v", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, requestError("create request: %v", err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	c.config.Auth.apply(httpReq)

	return httpReq, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// IsAvailable is false while the client's circuit breaker is open.
func (c *Client) IsAvailable(_ context.Context) bool {
	if cb := c.resilience.CircuitBreaker(); cb != nil {
		return cb.State() != resilience.StateOpen
	}
	return true
}

// Execute is Do under the provider.RequestResponse contract.
func (c *Client) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Do(ctx, req)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
