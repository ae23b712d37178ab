package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/getscript/httpclient"
	"github.com/kbukum/getscript/util"
)

// Client speaks JSON over an httpclient.Client. Unless configured otherwise
// every request sends Accept: application/json.
type Client struct {
	http *httpclient.Client
}

// New creates a client from cfg. cfg.Headers is copied, not modified.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := map[string]string{"Accept": "application/json"}
	maps.Copy(headers, cfg.Headers)
	cfg.Headers = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// HTTP exposes the transport, e.g. for availability checks.
func (c *Client) HTTP() *httpclient.Client { return c.http }

// RequestOption adjusts one request.
type RequestOption func(*httpclient.Request)

// WithQuery adds a query parameter; repeated keys send every value.
func WithQuery(key, value string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Query == nil {
			r.Query = map[string][]string{}
		}
		r.Query[key] = append(r.Query[key], value)
	}
}

// WithHeaders sets request headers over the client defaults.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(r.Headers, headers)
	}
}

// Response is a 2xx answer with its body decoded into Data.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Get fetches path and decodes the JSON answer into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.Request{Method: http.MethodGet, Path: path}, opts)
}

// Post sends body to path and decodes the JSON answer into T. Structs are
// JSON-encoded; []byte and io.Reader bodies go out unchanged, so set their
// Content-Type with WithHeaders.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.Request{Method: http.MethodPost, Path: path, Body: body}, opts)
}

func do[T any](ctx context.Context, c *Client, req httpclient.Request, opts []RequestOption) (*Response[T], error) {
	for _, opt := range opts {
		opt(&req)
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
		return nil, fmt.Errorf("rest: decode %s %s response %q: %w",
			req.Method, req.Path, util.Truncate(string(resp.Body), 120), err)
	}
	return out, nil
}
