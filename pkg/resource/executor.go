package resource

import (
	"context"
	"time"
)

// Result is the normalized outcome of one HTTP exchange.
type Result struct {
	// Status is the numeric HTTP status code.
	Status int

	// ETag is the concurrency token from the response's versioning header,
	// empty when the server did not send one.
	ETag string

	// Body is the decoded JSON body of a successful response. It is nil when
	// the response had no body. Non-JSON success bodies decode to an empty
	// object.
	Body any

	// RawBody is the undecoded response body.
	RawBody string

	// ErrorBody is the decoded JSON body of a failed response, nil if it
	// could not be decoded.
	ErrorBody any
}

// OK reports whether the status is in the 2xx range.
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// RequestOptions carries per-call settings from the dispatcher to the
// executor.
type RequestOptions struct {
	// Token is the bearer token to attach. Empty means no Authorization
	// header is sent.
	Token string

	// Timeout overrides the executor's configured timeout when positive.
	Timeout time.Duration
}

// Executor performs the four HTTP verbs against the appliance. Bodies are
// JSON-compatible values (map[string]any or []any) and are serialized by the
// executor.
type Executor interface {
	Get(ctx context.Context, path string, opts RequestOptions) (*Result, error)
	Post(ctx context.Context, path string, body any, opts RequestOptions) (*Result, error)
	Put(ctx context.Context, path string, body any, etag string, opts RequestOptions) (*Result, error)
	Delete(ctx context.Context, path string, opts RequestOptions) (*Result, error)
}

// TokenSource supplies the bearer token of the current session. BearerToken
// returns an error matching ErrLoginRequired when no session is established.
type TokenSource interface {
	BearerToken() (string, error)
}
