package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/nasrest/pkg/resource"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// Client is the HTTP executor for one appliance. It also holds the session
// bearer token and so satisfies resource.TokenSource.
//
// A Client is safe for concurrent use.
type Client struct {
	cfg     *Config
	baseURL string
	http    *http.Client
	logger  hclog.Logger

	mu    sync.RWMutex
	token string
}

var (
	_ resource.Executor    = (*Client)(nil)
	_ resource.TokenSource = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Requests are logged at Debug.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client built from the Config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBaseURL overrides the scheme://host:port derived from the Config.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// New creates a client for the appliance described by cfg.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, &resource.Error{Op: "New", Err: resource.ErrConfig, Msg: "config is nil"}
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	c := &Client{
		cfg:     cfg,
		baseURL: cfg.BaseURL(),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = cfg.NewHTTPClient()
	}
	c.logger = c.logger.Named("nas-client")
	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return *c.cfg
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get implements resource.Executor.
func (c *Client) Get(ctx context.Context, path string, opts resource.RequestOptions) (*resource.Result, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", opts)
}

// Post implements resource.Executor.
func (c *Client) Post(ctx context.Context, path string, body any, opts resource.RequestOptions) (*resource.Result, error) {
	return c.do(ctx, http.MethodPost, path, body, "", opts)
}

// Put implements resource.Executor. A non-empty etag is sent as If-Match.
func (c *Client) Put(ctx context.Context, path string, body any, etag string, opts resource.RequestOptions) (*resource.Result, error) {
	return c.do(ctx, http.MethodPut, path, body, etag, opts)
}

// Delete implements resource.Executor.
func (c *Client) Delete(ctx context.Context, path string, opts resource.RequestOptions) (*resource.Result, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", opts)
}

// do executes one request. Network failures are returned as ErrTransport;
// any HTTP response, whatever its status, yields a Result.
func (c *Client) do(ctx context.Context, method, path string, body any, etag string, opts resource.RequestOptions) (*resource.Result, error) {
	timeout := c.cfg.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, &resource.Error{
				Op:  method,
				Err: resource.ErrDataType,
				Msg: fmt.Sprintf("failed to marshal request body: %v", err),
			}
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &resource.Error{
			Op:  method,
			Err: resource.ErrUsage,
			Msg: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		return nil, &resource.Error{Op: method, Err: resource.ErrTransport, Msg: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &resource.Error{
			Op:  method,
			Err: resource.ErrTransport,
			Msg: fmt.Sprintf("failed to read response body: %v", err),
		}
	}

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	return newResult(resp.StatusCode, resp.Header.Get("ETag"), raw), nil
}

// newResult normalizes a response. Success bodies that are not JSON decode
// to an empty object; failure bodies that are not JSON leave ErrorBody nil.
func newResult(status int, etag string, raw []byte) *resource.Result {
	res := &resource.Result{
		Status:  status,
		ETag:    etag,
		RawBody: string(raw),
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return res
	}

	v, err := decodeJSON(raw)
	switch {
	case res.OK() && err != nil:
		res.Body = map[string]any{}
	case res.OK():
		res.Body = v
	case err == nil:
		res.ErrorBody = v
	}
	return res
}

// decodeJSON decodes numbers as json.Number so big integers survive.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}
