package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

// CallOption overrides request-level settings of a single verb call.
type CallOption func(*callConfig)

type callConfig struct {
	session  TokenSource
	timeout  time.Duration
	skipAuth bool
	logger   hclog.Logger
}

// WithSession authenticates the call with ts instead of the executor's own
// session.
func WithSession(ts TokenSource) CallOption {
	return func(c *callConfig) {
		c.session = ts
	}
}

// WithTimeout overrides the executor's configured timeout.
func WithTimeout(d time.Duration) CallOption {
	return func(c *callConfig) {
		c.timeout = d
	}
}

// WithoutAuth sends the request without a bearer token.
func WithoutAuth() CallOption {
	return func(c *callConfig) {
		c.skipAuth = true
	}
}

// WithLogger logs dispatch decisions to logger.
func WithLogger(logger hclog.Logger) CallOption {
	return func(c *callConfig) {
		c.logger = logger
	}
}

func newCallConfig(exec Executor, opts []CallOption) *callConfig {
	cfg := &callConfig{}
	if ts, ok := exec.(TokenSource); ok {
		cfg.session = ts
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = hclog.NewNullLogger()
	}
	return cfg
}

func (c *callConfig) requestOptions(op string) (RequestOptions, error) {
	opts := RequestOptions{Timeout: c.timeout}
	if c.skipAuth {
		return opts, nil
	}
	if c.session == nil {
		return opts, &Error{Op: op, Err: ErrLoginRequired, Msg: "no session provider"}
	}
	token, err := c.session.BearerToken()
	if err != nil {
		if errors.Is(err, ErrLoginRequired) {
			return opts, err
		}
		return opts, &Error{Op: op, Err: ErrLoginRequired, Msg: err.Error()}
	}
	opts.Token = token
	return opts, nil
}

// Path resolves the URI template against the attributes and appends the
// query string.
func (r *Resource) Path() (string, error) {
	if r.schema.uri == "" {
		return "", &Error{
			Op:  "Path",
			Err: ErrUsage,
			Msg: fmt.Sprintf("schema %q declares no uri", r.schema.name),
		}
	}
	m, _ := r.attrs.(map[string]any)
	path, err := ResolvePath(r.schema.uri, func(key string) (any, bool) {
		if v, ok := m[key]; ok && v != nil {
			return v, true
		}
		v, ok := r.params[key]
		return v, ok
	})
	if err != nil {
		return "", err
	}
	r.rememberParams(m)
	if len(r.queryKeys) > 0 {
		path += "?" + queryString(r.queryKeys, r.query)
	}
	return path, nil
}

func (r *Resource) rememberParams(m map[string]any) {
	for _, p := range placeholders(r.schema.uri) {
		if v, ok := m[p]; ok && v != nil {
			if r.params == nil {
				r.params = make(map[string]any)
			}
			r.params[p] = v
		}
	}
}

// Get fetches the resource and replaces the attributes with the response.
func (r *Resource) Get(ctx context.Context, exec Executor, opts ...CallOption) (*Resource, error) {
	return r.dispatch(ctx, exec, http.MethodGet, opts)
}

// Post sends the attributes to the resource path.
func (r *Resource) Post(ctx context.Context, exec Executor, opts ...CallOption) (*Resource, error) {
	return r.dispatch(ctx, exec, http.MethodPost, opts)
}

// Put sends the attributes with the concurrency token as a precondition.
func (r *Resource) Put(ctx context.Context, exec Executor, opts ...CallOption) (*Resource, error) {
	return r.dispatch(ctx, exec, http.MethodPut, opts)
}

// Delete deletes the resource.
func (r *Resource) Delete(ctx context.Context, exec Executor, opts ...CallOption) (*Resource, error) {
	return r.dispatch(ctx, exec, http.MethodDelete, opts)
}

func (r *Resource) dispatch(ctx context.Context, exec Executor, method string, opts []CallOption) (*Resource, error) {
	path, err := r.Path()
	if err != nil {
		return nil, err
	}
	res, err := send(ctx, exec, method, path, r.attrs, r.etag, opts)
	if err != nil {
		return nil, err
	}
	if err := r.interpret(method, path, res); err != nil {
		return nil, err
	}
	return r.substitute(), nil
}

// send performs one exchange through exec.
func send(ctx context.Context, exec Executor, method, path string, body any, etag string, opts []CallOption) (*Result, error) {
	cfg := newCallConfig(exec, opts)
	reqOpts, err := cfg.requestOptions(method)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("dispatching request", "method", method, "path", path)

	var res *Result
	switch method {
	case http.MethodGet:
		res, err = exec.Get(ctx, path, reqOpts)
	case http.MethodPost:
		res, err = exec.Post(ctx, path, body, reqOpts)
	case http.MethodPut:
		res, err = exec.Put(ctx, path, body, etag, reqOpts)
	case http.MethodDelete:
		res, err = exec.Delete(ctx, path, reqOpts)
	default:
		return nil, &Error{Op: "Dispatch", Err: ErrUsage, Msg: "unsupported method " + method}
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	cfg.logger.Debug("request completed", "method", method, "path", path, "status", res.Status)
	return res, nil
}

// interpret applies a result to the instance. On failure the attributes are
// left untouched.
func (r *Resource) interpret(method, path string, res *Result) error {
	r.status = res.Status
	if res.ETag != "" {
		r.etag = res.ETag
	}

	if !res.OK() {
		r.lastError = failurePayload(res)
		return &RequestFailedError{Method: method, Path: path, Result: res}
	}

	r.lastError = nil
	if res.Body == nil {
		return nil
	}
	if err := r.replace(res.Body); err != nil {
		return &Error{Op: method, Err: err, Msg: "unexpected response shape"}
	}
	return nil
}

func failurePayload(res *Result) any {
	if res.ErrorBody != nil {
		return res.ErrorBody
	}
	if res.RawBody != "" {
		return res.RawBody
	}
	if text := http.StatusText(res.Status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", res.Status)
}

// substitute returns the instance to hand back to the caller: r itself, or
// an instance of the declared result schema sharing r's interpreted state.
func (r *Resource) substitute() *Resource {
	rs := r.schema.result
	if rs == nil {
		return r
	}
	rs.seal()
	out := &Resource{
		schema:    rs,
		attrs:     r.attrs,
		query:     make(map[string]string),
		etag:      r.etag,
		status:    r.status,
		lastError: r.lastError,
		populated: r.populated,
		root:      newMemo(),
	}
	return out
}

// Get creates an instance of s from attrs and fetches it.
func Get(ctx context.Context, exec Executor, s *Schema, attrs map[string]any, opts ...CallOption) (*Resource, error) {
	return New(s, attrs).Get(ctx, exec, opts...)
}

// Post creates an instance of s from attrs and posts it. The URI template
// must be resolvable from attrs alone.
func Post(ctx context.Context, exec Executor, s *Schema, attrs map[string]any, opts ...CallOption) (*Resource, error) {
	r := New(s, attrs)
	if _, err := r.Path(); err != nil {
		return nil, fmt.Errorf("%w: post on %s needs a fully resolved path: %w", ErrUsage, s.name, err)
	}
	return r.Post(ctx, exec, opts...)
}

// Put creates an instance of s from attrs and puts it. etag may be empty.
func Put(ctx context.Context, exec Executor, s *Schema, attrs map[string]any, etag string, opts ...CallOption) (*Resource, error) {
	r := New(s, attrs)
	r.SetETag(etag)
	return r.Put(ctx, exec, opts...)
}

// Delete deletes the instance of s identified by attrs.
func Delete(ctx context.Context, exec Executor, s *Schema, attrs map[string]any, opts ...CallOption) (*Resource, error) {
	return New(s, attrs).Delete(ctx, exec, opts...)
}
