package resource

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the wire format of timestamps: UTC with a nanosecond fraction
// and a trailing Z.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Converter maps between a wire value (a JSON-compatible scalar, []any or
// map[string]any) and an in-memory value for one logical field type.
type Converter interface {
	// Name is the logical type name used in error messages.
	Name() string

	// Acceptable reports whether v may be stored in a field of this type.
	Acceptable(v any) bool

	// ToWire converts an acceptable in-memory value to its wire form.
	ToWire(v any) (any, error)

	// FromWire converts a wire value to its in-memory form.
	FromWire(w any) (any, error)
}

// Type is a Converter whose in-memory form is statically T.
type Type[T any] struct {
	Converter
}

// Logical types.
var (
	String  = Type[string]{stringConverter{}}
	Integer = Type[int64]{integerConverter{}}
	BigInt  = Type[*big.Int]{bigIntConverter{}}
	Float   = Type[float64]{floatConverter{}}
	Bool    = Type[bool]{boolConverter{}}
	Time    = Type[time.Time]{timeConverter{}}
	Opaque  = Type[any]{opaqueConverter{}}
	Untyped = Type[any]{untypedConverter{}}
)

var logicalTypes = map[string]Converter{}

// RegisterType makes a converter available by name to LookupType. It panics
// on a duplicate name.
func RegisterType(c Converter) {
	if _, dup := logicalTypes[c.Name()]; dup {
		panic(fmt.Sprintf("resource: logical type %q registered twice", c.Name()))
	}
	logicalTypes[c.Name()] = c
}

// LookupType returns the converter registered under name.
func LookupType(name string) (Converter, bool) {
	c, ok := logicalTypes[name]
	return c, ok
}

func init() {
	for _, c := range []Converter{
		String.Converter, Integer.Converter, BigInt.Converter, Float.Converter,
		Bool.Converter, Time.Converter, Opaque.Converter, Untyped.Converter,
	} {
		RegisterType(c)
	}
}

type stringConverter struct{}

func (stringConverter) Name() string { return "string" }

func (stringConverter) Acceptable(v any) bool {
	_, ok := v.(string)
	return ok
}

func (c stringConverter) ToWire(v any) (any, error) {
	if !c.Acceptable(v) {
		return nil, &DataTypeError{Expected: c.Name(), Value: v}
	}
	return v, nil
}

func (c stringConverter) FromWire(w any) (any, error) {
	switch s := w.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: w}
}

type integerConverter struct{}

func (integerConverter) Name() string { return "integer" }

func (integerConverter) Acceptable(v any) bool {
	_, ok := toInt64(v)
	return ok
}

func (c integerConverter) ToWire(v any) (any, error) {
	n, ok := toInt64(v)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: v}
	}
	return n, nil
}

func (c integerConverter) FromWire(w any) (any, error) {
	switch n := w.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, &DataTypeError{Expected: c.Name(), Value: w}
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return nil, &DataTypeError{Expected: c.Name(), Value: w}
		}
		return int64(n), nil
	}
	if i, ok := toInt64(w); ok {
		return i, nil
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: w}
}

// toInt64 accepts any Go integer kind that fits in an int64.
func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

type bigIntConverter struct{}

func (bigIntConverter) Name() string { return "bigint" }

func (bigIntConverter) Acceptable(v any) bool {
	_, ok := toBigInt(v)
	return ok
}

func (c bigIntConverter) ToWire(v any) (any, error) {
	b, ok := toBigInt(v)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: v}
	}
	return b.String(), nil
}

func (c bigIntConverter) FromWire(w any) (any, error) {
	var s string
	switch x := w.(type) {
	case string:
		s = x
	case json.Number:
		s = x.String()
	default:
		if b, ok := toBigInt(w); ok {
			return b, nil
		}
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	return b, nil
}

func toBigInt(v any) (*big.Int, bool) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, false
		}
		return new(big.Int).Set(x), true
	case big.Int:
		return new(big.Int).Set(&x), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

type floatConverter struct{}

func (floatConverter) Name() string { return "float" }

func (floatConverter) Acceptable(v any) bool {
	switch v.(type) {
	case float64, float32:
		return true
	}
	_, ok := toInt64(v)
	return ok
}

func (c floatConverter) ToWire(v any) (any, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), nil
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: v}
}

func (c floatConverter) FromWire(w any) (any, error) {
	switch f := w.(type) {
	case json.Number:
		x, err := f.Float64()
		if err != nil {
			return nil, &DataTypeError{Expected: c.Name(), Value: w}
		}
		return x, nil
	case string:
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &DataTypeError{Expected: c.Name(), Value: w}
		}
		return x, nil
	}
	return c.ToWire(w)
}

type boolConverter struct{}

func (boolConverter) Name() string { return "boolean" }

func (boolConverter) Acceptable(v any) bool {
	_, ok := v.(bool)
	return ok
}

func (c boolConverter) ToWire(v any) (any, error) {
	if !c.Acceptable(v) {
		return nil, &DataTypeError{Expected: c.Name(), Value: v}
	}
	return v, nil
}

func (c boolConverter) FromWire(w any) (any, error) {
	return c.ToWire(w)
}

type timeConverter struct{}

func (timeConverter) Name() string { return "timestamp" }

func (timeConverter) Acceptable(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func (c timeConverter) ToWire(v any) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(TimeLayout), nil
	case *time.Time:
		if t != nil {
			return t.UTC().Format(TimeLayout), nil
		}
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: v}
}

func (c timeConverter) FromWire(w any) (any, error) {
	s, ok := w.(string)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// Fall back for ISO-8601 variants RFC 3339 rejects, such as offsets
	// without a colon.
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	return t, nil
}

type opaqueConverter struct{}

func (opaqueConverter) Name() string { return "opaque" }

func (opaqueConverter) Acceptable(v any) bool {
	switch v.(type) {
	case nil, map[string]any, []any:
		return true
	}
	return false
}

func (c opaqueConverter) ToWire(v any) (any, error) {
	if !c.Acceptable(v) {
		return nil, &DataTypeError{Expected: c.Name(), Value: v}
	}
	return v, nil
}

func (opaqueConverter) FromWire(w any) (any, error) { return w, nil }

// untypedConverter performs no conversion and no validation.
type untypedConverter struct{}

func (untypedConverter) Name() string { return "untyped" }

func (untypedConverter) Acceptable(any) bool { return true }

func (untypedConverter) ToWire(v any) (any, error) { return v, nil }

func (untypedConverter) FromWire(w any) (any, error) { return w, nil }
