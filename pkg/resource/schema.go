package resource

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"
)

// Schema is the declaration of a resource class: its URI template, its typed
// fields, and optionally the collection item class and a result class.
//
// Schemas are built at package initialization with NewSchema and Declare and
// become immutable the first time an instance is created from them.
type Schema struct {
	name     string
	uri      string
	result   *Schema
	item     *Schema
	itemsKey string

	fields []*fieldSpec
	byName map[string]*fieldSpec
	byKey  map[string]*fieldSpec

	mu       sync.Mutex
	sealed   bool
	declErrs *multierror.Error
}

// fieldSpec is one row of the schema's field table.
type fieldSpec struct {
	name  string
	key   string
	conv  Converter
	query bool
}

// CollectionSchema describes how a collection resource unwraps its items.
type CollectionSchema interface {
	ItemSchema() *Schema
	ItemsKey() string
	URITemplate() string
}

var _ CollectionSchema = (*Schema)(nil)

// SchemaOption configures a Schema at declaration time.
type SchemaOption func(*Schema)

// URI sets the path template. Placeholders are written as :name and resolve
// against the attribute with that storage key.
func URI(template string) SchemaOption {
	return func(s *Schema) {
		s.uri = template
	}
}

// ResultAs makes successful responses yield an instance of result instead of
// the declaring schema.
func ResultAs(result *Schema) SchemaOption {
	return func(s *Schema) {
		if result == nil {
			s.declErr(fmt.Errorf("result schema is nil"))
			return
		}
		s.result = result
	}
}

// Items marks the schema as a collection of item. An empty key means the
// response body is itself a bare JSON array; otherwise the items array is
// found under key in a JSON object.
func Items(item *Schema, key string) SchemaOption {
	return func(s *Schema) {
		if item == nil {
			s.declErr(fmt.Errorf("item schema is nil"))
			return
		}
		s.item = item
		s.itemsKey = key
	}
}

// NewSchema declares a resource class.
func NewSchema(name string, opts ...SchemaOption) *Schema {
	s := &Schema{
		name:   name,
		byName: make(map[string]*fieldSpec),
		byKey:  make(map[string]*fieldSpec),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// URITemplate returns the path template, empty for fields-only schemas.
func (s *Schema) URITemplate() string { return s.uri }

// ResultSchema returns the result class, or nil.
func (s *Schema) ResultSchema() *Schema { return s.result }

// ItemSchema returns the collection item class, or nil for non-collections.
func (s *Schema) ItemSchema() *Schema { return s.item }

// ItemsKey returns the key holding the items array, empty for bare arrays.
func (s *Schema) ItemsKey() string { return s.itemsKey }

// IsCollection reports whether the schema declares an item class.
func (s *Schema) IsCollection() bool { return s.item != nil }

// FieldNames returns the declared field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// FieldType returns the converter of the named field.
func (s *Schema) FieldType(name string) (Converter, bool) {
	f, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return f.conv, true
}

// FieldOption configures a field at declaration time.
type FieldOption func(*fieldSpec)

// Key overrides the wire storage key. By default the key is the snake_case
// form of the field name.
func Key(key string) FieldOption {
	return func(f *fieldSpec) {
		f.key = key
	}
}

// Declare adds a typed field to s and returns its accessor.
func Declare[T any](s *Schema, name string, t Type[T], opts ...FieldOption) Field[T] {
	f := &fieldSpec{
		name: name,
		key:  strcase.ToSnake(name),
		conv: t.Converter,
	}
	for _, opt := range opts {
		opt(f)
	}
	s.addField(f)
	return Field[T]{schema: s, spec: f}
}

// DeclareQuery adds a field stored in the query string under key rather than
// in the attributes. Values are URL-encoded on write and decoded on read.
func DeclareQuery(s *Schema, name, key string) Field[string] {
	f := &fieldSpec{
		name:  name,
		key:   key,
		conv:  String.Converter,
		query: true,
	}
	s.addField(f)
	return Field[string]{schema: s, spec: f}
}

func (s *Schema) addField(f *fieldSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		panic(fmt.Sprintf("resource: field %q declared on schema %q after first use", f.name, s.name))
	}
	if f.conv == nil {
		s.declErrLocked(fmt.Errorf("field %q has no converter", f.name))
		return
	}
	if _, dup := s.byName[f.name]; dup {
		s.declErrLocked(fmt.Errorf("field %q declared twice", f.name))
		return
	}
	if !f.query {
		if prev, dup := s.byKey[f.key]; dup {
			s.declErrLocked(fmt.Errorf("field %q reuses storage key %q of field %q", f.name, f.key, prev.name))
			return
		}
		s.byKey[f.key] = f
	}
	s.fields = append(s.fields, f)
	s.byName[f.name] = f
}

func (s *Schema) declErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.declErrLocked(err)
}

func (s *Schema) declErrLocked(err error) {
	s.declErrs = multierror.Append(s.declErrs, err)
}

// Validate reports every declaration problem of the schema at once.
func (s *Schema) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Schema) validateLocked() error {
	var result *multierror.Error
	if s.declErrs != nil {
		result = multierror.Append(result, s.declErrs.Errors...)
	}
	if s.name == "" {
		result = multierror.Append(result, fmt.Errorf("schema name is empty"))
	}
	for _, p := range placeholders(s.uri) {
		if _, ok := s.byKey[p]; ok {
			continue
		}
		if s.hasQueryKeyLocked(p) {
			result = multierror.Append(result,
				fmt.Errorf("uri placeholder %q names a query field", ":"+p))
			continue
		}
		result = multierror.Append(result,
			fmt.Errorf("uri placeholder %q does not name a declared field", ":"+p))
	}
	if s.item != nil && s.item == s {
		result = multierror.Append(result, fmt.Errorf("collection %q lists itself as item schema", s.name))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("schema %q: %w", s.name, err)
	}
	return nil
}

func (s *Schema) hasQueryKeyLocked(key string) bool {
	for _, f := range s.fields {
		if f.query && f.key == key {
			return true
		}
	}
	return false
}

// seal freezes the schema. A schema with declaration problems is a
// programming error and panics here.
func (s *Schema) seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	if err := s.validateLocked(); err != nil {
		panic(err.Error())
	}
	s.sealed = true
}

func (s *Schema) field(name string) (*fieldSpec, error) {
	f, ok := s.byName[name]
	if !ok {
		return nil, &Error{
			Op:  "Field",
			Err: ErrUsage,
			Msg: fmt.Sprintf("schema %q has no field %q", s.name, name),
		}
	}
	return f, nil
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString(s.name)
	if s.uri != "" {
		b.WriteString(" ")
		b.WriteString(s.uri)
	}
	return b.String()
}
