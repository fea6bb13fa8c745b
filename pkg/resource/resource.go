package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
)

// State is the request state of an instance.
type State int

const (
	// StateNew means no request has been issued.
	StateNew State = iota
	// StateSynced means the last request succeeded.
	StateSynced
	// StateFailed means the last request failed; attributes hold the last
	// successful state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateSynced:
		return "synced"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Resource is an instance of a schema. Its attributes are always held in wire
// form; typed accessors convert on every access.
//
// A Resource is not safe for concurrent use. Distinct instances may be used
// from different goroutines.
type Resource struct {
	schema *Schema

	// attrs is a map[string]any, a []any (bare-array collections) or nil.
	attrs any

	query     map[string]string
	queryKeys []string

	// params remembers placeholder values of the last resolved path so a
	// collection whose attributes became a bare array can still be refetched.
	params map[string]any

	etag      string
	status    int
	lastError any
	populated bool

	root *memo
}

// New creates an instance of s seeded with attrs. The map is used as the
// attribute store directly, not copied.
func New(s *Schema, attrs map[string]any) *Resource {
	s.seal()
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &Resource{
		schema: s,
		attrs:  attrs,
		query:  make(map[string]string),
		root:   newMemo(),
	}
}

// FromWire creates an instance of s populated from a decoded JSON payload.
func FromWire(s *Schema, body any) (*Resource, error) {
	s.seal()
	r := &Resource{
		schema: s,
		query:  make(map[string]string),
		root:   newMemo(),
	}
	if err := r.replace(body); err != nil {
		return nil, err
	}
	return r, nil
}

// attach creates an instance sharing the memo of its owner.
func attach(s *Schema, attrs map[string]any, root *memo) *Resource {
	s.seal()
	return &Resource{
		schema:    s,
		attrs:     attrs,
		query:     make(map[string]string),
		root:      root,
		populated: true,
	}
}

// Schema returns the schema of the instance.
func (r *Resource) Schema() *Schema { return r.schema }

// Attributes returns the wire-form attribute store. It is a map[string]any
// except for bare-array collections, where it may be a []any.
func (r *Resource) Attributes() any { return r.attrs }

// AttributeMap returns the attributes when they are a JSON object.
func (r *Resource) AttributeMap() (map[string]any, bool) {
	m, ok := r.attrs.(map[string]any)
	return m, ok
}

// SetAttributes replaces the attribute store wholesale.
func (r *Resource) SetAttributes(attrs map[string]any) {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	r.attrs = attrs
	r.root.reset()
}

// ETag returns the concurrency token of the last GET or PUT response.
func (r *Resource) ETag() string { return r.etag }

// SetETag overrides the concurrency token sent with the next PUT.
func (r *Resource) SetETag(etag string) { r.etag = etag }

// Status returns the HTTP status of the last request, zero if none.
func (r *Resource) Status() int { return r.status }

// LastError returns the error payload of the last failed request.
func (r *Resource) LastError() any { return r.lastError }

// State returns the request state of the instance.
func (r *Resource) State() State {
	switch {
	case r.status == 0:
		return StateNew
	case r.lastError != nil:
		return StateFailed
	}
	return StateSynced
}

// Attr returns the in-memory value of the named field.
func (r *Resource) Attr(name string) (any, error) {
	f, err := r.schema.field(name)
	if err != nil {
		return nil, err
	}
	return r.read(f)
}

// SetAttr validates v against the named field's type and stores its wire
// form. Attributes are not touched when v is rejected.
func (r *Resource) SetAttr(name string, v any) error {
	f, err := r.schema.field(name)
	if err != nil {
		return err
	}
	return r.write(f, v)
}

// Raw returns the wire value stored under key.
func (r *Resource) Raw(key string) (any, bool) {
	m, ok := r.attrs.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// SetRaw stores a wire value under key without any conversion.
func (r *Resource) SetRaw(key string, v any) error {
	m, err := r.attrMap("SetRaw")
	if err != nil {
		return err
	}
	m[key] = v
	return nil
}

// Query returns the URL-encoded query parameters in insertion order.
func (r *Resource) Query() (keys []string, values map[string]string) {
	return append([]string(nil), r.queryKeys...), r.query
}

// SetQuery stores value, URL-encoding it, under the query key.
func (r *Resource) SetQuery(key, value string) {
	r.setQueryEncoded(key, url.QueryEscape(value))
}

func (r *Resource) setQueryEncoded(key, encoded string) {
	if _, ok := r.query[key]; !ok {
		r.queryKeys = append(r.queryKeys, key)
	}
	r.query[key] = encoded
}

// Decode copies the attributes into out, a pointer to a struct or map,
// matching struct fields by their json tags.
func (r *Resource) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(r.attrs); err != nil {
		return fmt.Errorf("failed to decode %s attributes: %w", r.schema.name, err)
	}
	return nil
}

// MarshalJSON renders the attributes.
func (r *Resource) MarshalJSON() ([]byte, error) {
	if r.attrs == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.attrs)
}

func (r *Resource) attrMap(op string) (map[string]any, error) {
	switch m := r.attrs.(type) {
	case map[string]any:
		return m, nil
	case nil:
		nm := make(map[string]any)
		r.attrs = nm
		return nm, nil
	}
	return nil, &Error{
		Op:  op,
		Err: &DataTypeError{Field: r.schema.name, Expected: "object", Value: r.attrs},
		Msg: "attributes are not a JSON object",
	}
}

func (r *Resource) read(f *fieldSpec) (any, error) {
	if f.query {
		enc, ok := r.query[f.key]
		if !ok {
			return nil, nil
		}
		v, err := url.QueryUnescape(enc)
		if err != nil {
			return nil, &DataTypeError{Field: f.name, Expected: "url-encoded string", Value: enc}
		}
		return v, nil
	}

	m, ok := r.attrs.(map[string]any)
	if !ok {
		return nil, nil
	}
	w, ok := m[f.key]
	if !ok || w == nil {
		return nil, nil
	}

	var (
		v   any
		err error
	)
	if b, ok := f.conv.(binder); ok {
		v, err = b.bind(r.root, m, f.key, w)
	} else {
		v, err = f.conv.FromWire(w)
	}
	if err != nil {
		return nil, withField(err, f.name)
	}
	return v, nil
}

func (r *Resource) write(f *fieldSpec, v any) error {
	if !f.conv.Acceptable(v) {
		return &DataTypeError{Field: f.name, Expected: f.conv.Name(), Value: v}
	}
	w, err := f.conv.ToWire(v)
	if err != nil {
		return withField(err, f.name)
	}

	if f.query {
		r.SetQuery(f.key, w.(string))
		return nil
	}

	m, err := r.attrMap("Set")
	if err != nil {
		return err
	}
	if old, ok := m[f.key]; ok {
		r.root.forget(old)
	}
	m[f.key] = w
	if b, ok := f.conv.(binder); ok {
		b.adopt(r.root, m, f.key, v)
	}
	return nil
}

// replace installs a decoded response body as the attribute store.
func (r *Resource) replace(body any) error {
	switch b := body.(type) {
	case map[string]any:
	case []any:
		if !r.schema.IsCollection() {
			return &DataTypeError{Field: r.schema.name, Expected: "object", Value: body}
		}
	default:
		return &DataTypeError{Field: r.schema.name, Expected: "object or array", Value: b}
	}
	r.attrs = body
	r.populated = true
	r.root.reset()
	return nil
}

func withField(err error, field string) error {
	var dte *DataTypeError
	if errors.As(err, &dte) && dte.Field == "" {
		return &DataTypeError{Field: field, Expected: dte.Expected, Value: dte.Value}
	}
	return err
}

// Field is a typed accessor for one declared field.
type Field[T any] struct {
	schema *Schema
	spec   *fieldSpec
}

// Name returns the field name.
func (f Field[T]) Name() string { return f.spec.name }

// Key returns the wire storage key (or query key for query fields).
func (f Field[T]) Key() string { return f.spec.key }

// Get reads the field from r. A missing value yields the zero T.
func (f Field[T]) Get(r *Resource) (T, error) {
	var zero T
	if err := f.check(r, "Get"); err != nil {
		return zero, err
	}
	v, err := r.read(f.spec)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &DataTypeError{Field: f.spec.name, Expected: f.spec.conv.Name(), Value: v}
	}
	return t, nil
}

// Set writes v to the field of r.
func (f Field[T]) Set(r *Resource, v T) error {
	if err := f.check(r, "Set"); err != nil {
		return err
	}
	return r.write(f.spec, v)
}

func (f Field[T]) check(r *Resource, op string) error {
	if r.schema != f.schema {
		return &Error{
			Op:  op,
			Err: ErrUsage,
			Msg: fmt.Sprintf("field %q belongs to schema %q, not %q", f.spec.name, f.schema.name, r.schema.name),
		}
	}
	return nil
}

// binder is implemented by converters whose in-memory form wraps the wire
// object, so that mutation through the wrapper is visible in the parent.
type binder interface {
	// bind returns the memoized wrapper of w, stored at parent[key].
	bind(root *memo, parent map[string]any, key string, w any) (any, error)

	// adopt registers an in-memory value just written to parent[key].
	adopt(root *memo, parent map[string]any, key string, v any)
}

// Nested declares a field holding an embedded resource of schema s.
func Nested(s *Schema) Type[*Resource] {
	return Type[*Resource]{nestedConverter{schema: s}}
}

type nestedConverter struct {
	schema *Schema
}

func (c nestedConverter) Name() string { return "resource<" + c.schema.name + ">" }

func (c nestedConverter) Acceptable(v any) bool {
	switch x := v.(type) {
	case *Resource:
		if x == nil || x.schema != c.schema {
			return false
		}
		_, ok := x.attrs.(map[string]any)
		return ok || x.attrs == nil
	case map[string]any:
		return true
	}
	return false
}

func (c nestedConverter) ToWire(v any) (any, error) {
	switch x := v.(type) {
	case *Resource:
		if !c.Acceptable(x) {
			break
		}
		m, err := x.attrMap("ToWire")
		if err != nil {
			return nil, err
		}
		return m, nil
	case map[string]any:
		return x, nil
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: v}
}

func (c nestedConverter) FromWire(w any) (any, error) {
	m, ok := w.(map[string]any)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	return attach(c.schema, m, newMemo()), nil
}

func (c nestedConverter) bind(root *memo, _ map[string]any, _ string, w any) (any, error) {
	m, ok := w.(map[string]any)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	return root.lookup(m, func() any {
		return attach(c.schema, m, root)
	}), nil
}

func (c nestedConverter) adopt(root *memo, parent map[string]any, key string, v any) {
	child, ok := v.(*Resource)
	if !ok {
		return
	}
	child.root = root
	child.populated = true
	root.store(parent[key], child)
}
