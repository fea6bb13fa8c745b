package resource

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package (and by pkg/client)
// matches one of these with errors.Is.
var (
	ErrDataType         = errors.New("data type error")
	ErrURI              = errors.New("uri error")
	ErrResourceMismatch = errors.New("resource mismatch")
	ErrNoData           = errors.New("no data")
	ErrLoginRequired    = errors.New("login required")
	ErrAuthentication   = errors.New("authentication failed")
	ErrRequestFailed    = errors.New("request failed")
	ErrConfig           = errors.New("config error")
	ErrValidation       = errors.New("validation error")
	ErrUsage            = errors.New("usage error")
	ErrTransport        = errors.New("transport error")
)

// Error wraps an underlying error with the operation that produced it.
type Error struct {
	Op  string // Operation being performed (e.g. "Get", "Items", "Configure")
	Err error  // Underlying error, usually one of the sentinels above
	Msg string // Optional additional context
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DataTypeError reports a value that does not satisfy a field's converter,
// or a response body whose shape (object vs array) does not match.
type DataTypeError struct {
	Field    string
	Expected string
	Value    any
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("field %q expects %s, got %T (%v)", e.Field, e.Expected, e.Value, e.Value)
}

func (e *DataTypeError) Is(target error) bool {
	return target == ErrDataType
}

// URIError reports a path placeholder that could not be resolved.
type URIError struct {
	Placeholder string
	Template    string
}

func (e *URIError) Error() string {
	return fmt.Sprintf("cannot resolve %q in uri template %q", ":"+e.Placeholder, e.Template)
}

func (e *URIError) Is(target error) bool {
	return target == ErrURI
}

// ResourceMismatchError reports a collection response whose shape does not
// match the declared unwrap strategy.
type ResourceMismatchError struct {
	Schema string
	Key    string // expected items key, empty for bare-array collections
	Reason string
}

func (e *ResourceMismatchError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: expected a bare array response: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("%s: expected items under key %q: %s", e.Schema, e.Key, e.Reason)
}

func (e *ResourceMismatchError) Is(target error) bool {
	return target == ErrResourceMismatch
}

// RequestFailedError is returned by every verb when the server answers with a
// non-success status. The full Result is kept for inspection.
type RequestFailedError struct {
	Method string
	Path   string
	Result *Result
}

func (e *RequestFailedError) Error() string {
	msg := e.Result.RawBody
	if e.Result.ErrorBody != nil {
		msg = errorDescription(e.Result.ErrorBody)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.Result.Status, msg)
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrRequestFailed
}

// StatusCode returns the HTTP status of the failed request.
func (e *RequestFailedError) StatusCode() int {
	return e.Result.Status
}

// errorDescription extracts a human readable message from a structured error
// body, falling back to its printed form.
func errorDescription(body any) string {
	if m, ok := body.(map[string]any); ok {
		for _, k := range []string{"description", "message", "error"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	if s, ok := body.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", body)
}
