package resource

import (
	"fmt"
)

// Array is a typed view over a wire array. Elements are converted on access,
// never eagerly. Writes go to the underlying wire slice, which stays stored in
// the parent's attributes.
type Array[E any] struct {
	elem Type[E]

	root   *memo
	parent map[string]any
	key    string
	items  []any
}

// ArrayOf declares a field holding a homogeneous array of elem.
func ArrayOf[E any](elem Type[E]) Type[*Array[E]] {
	return Type[*Array[E]]{arrayConverter[E]{elem: elem}}
}

// ArrayOfNamed declares an untyped-element array whose element converter is
// looked up by logical type name.
func ArrayOfNamed(name string) (Type[*Array[any]], error) {
	c, ok := LookupType(name)
	if !ok {
		return Type[*Array[any]]{}, &Error{
			Op:  "ArrayOfNamed",
			Err: ErrUsage,
			Msg: fmt.Sprintf("unknown logical type %q", name),
		}
	}
	return ArrayOf(Type[any]{c}), nil
}

// NewArray builds a detached array from in-memory values. It becomes bound to
// a resource when assigned to one of its fields.
func NewArray[E any](elem Type[E], values ...E) (*Array[E], error) {
	a := &Array[E]{elem: elem, items: make([]any, 0, len(values))}
	if err := a.Append(values...); err != nil {
		return nil, err
	}
	return a, nil
}

// Len returns the number of elements.
func (a *Array[E]) Len() int { return len(a.items) }

// At converts and returns element i.
func (a *Array[E]) At(i int) (E, error) {
	var zero E
	if i < 0 || i >= len(a.items) {
		return zero, &Error{
			Op:  "At",
			Err: ErrUsage,
			Msg: fmt.Sprintf("index %d out of range [0,%d)", i, len(a.items)),
		}
	}
	w := a.items[i]
	if w == nil {
		return zero, nil
	}
	var (
		v   any
		err error
	)
	if b, ok := a.elem.Converter.(binder); ok && a.root != nil {
		v, err = b.bind(a.root, nil, "", w)
	} else {
		v, err = a.elem.FromWire(w)
	}
	if err != nil {
		return zero, withField(err, fmt.Sprintf("%s[%d]", a.key, i))
	}
	e, ok := v.(E)
	if !ok {
		return zero, &DataTypeError{Field: fmt.Sprintf("%s[%d]", a.key, i), Expected: a.elem.Name(), Value: v}
	}
	return e, nil
}

// Values converts every element.
func (a *Array[E]) Values() ([]E, error) {
	out := make([]E, len(a.items))
	for i := range a.items {
		e, err := a.At(i)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// Set replaces element i in place.
func (a *Array[E]) Set(i int, v E) error {
	if i < 0 || i >= len(a.items) {
		return &Error{
			Op:  "Set",
			Err: ErrUsage,
			Msg: fmt.Sprintf("index %d out of range [0,%d)", i, len(a.items)),
		}
	}
	w, err := a.toWire(i, v)
	if err != nil {
		return err
	}
	if a.root != nil {
		a.root.forget(a.items[i])
	}
	a.items[i] = w
	a.adoptElem(w, v)
	return nil
}

// Append adds elements, writing the grown slice back to the parent.
func (a *Array[E]) Append(values ...E) error {
	wires := make([]any, len(values))
	for i, v := range values {
		w, err := a.toWire(len(a.items)+i, v)
		if err != nil {
			return err
		}
		wires[i] = w
	}
	if a.root != nil {
		a.root.forget(a.items)
	}
	a.items = append(a.items, wires...)
	if a.parent != nil {
		a.parent[a.key] = a.items
	}
	if a.root != nil {
		a.root.store(a.items, a)
	}
	for i, w := range wires {
		a.adoptElem(w, values[i])
	}
	return nil
}

func (a *Array[E]) toWire(i int, v E) (any, error) {
	field := fmt.Sprintf("%s[%d]", a.key, i)
	if !a.elem.Acceptable(v) {
		return nil, &DataTypeError{Field: field, Expected: a.elem.Name(), Value: v}
	}
	w, err := a.elem.ToWire(v)
	if err != nil {
		return nil, withField(err, field)
	}
	return w, nil
}

func (a *Array[E]) adoptElem(w any, v E) {
	if a.root == nil {
		return
	}
	if child, ok := any(v).(*Resource); ok {
		child.root = a.root
		child.populated = true
		a.root.store(w, child)
	}
}

type arrayConverter[E any] struct {
	elem Type[E]
}

func (c arrayConverter[E]) Name() string { return "array<" + c.elem.Name() + ">" }

func (c arrayConverter[E]) Acceptable(v any) bool {
	switch x := v.(type) {
	case *Array[E]:
		return x != nil
	case []E:
		for _, e := range x {
			if !c.elem.Acceptable(e) {
				return false
			}
		}
		return true
	case []any:
		for _, e := range x {
			if !c.elem.Acceptable(e) {
				return false
			}
		}
		return true
	}
	return false
}

func (c arrayConverter[E]) ToWire(v any) (any, error) {
	switch x := v.(type) {
	case *Array[E]:
		if x != nil {
			return x.items, nil
		}
	case []E:
		out := make([]any, len(x))
		for i, e := range x {
			w, err := c.elem.ToWire(e)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			w, err := c.elem.ToWire(e)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	}
	return nil, &DataTypeError{Expected: c.Name(), Value: v}
}

func (c arrayConverter[E]) FromWire(w any) (any, error) {
	items, ok := w.([]any)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	return &Array[E]{elem: c.elem, items: items}, nil
}

func (c arrayConverter[E]) bind(root *memo, parent map[string]any, key string, w any) (any, error) {
	items, ok := w.([]any)
	if !ok {
		return nil, &DataTypeError{Expected: c.Name(), Value: w}
	}
	if cap(items) == 0 && parent != nil {
		// An empty decoded array has no backing storage to key on.
		items = make([]any, 0, 1)
		parent[key] = items
	}
	return root.lookup(items, func() any {
		return &Array[E]{elem: c.elem, root: root, parent: parent, key: key, items: items}
	}), nil
}

func (c arrayConverter[E]) adopt(root *memo, parent map[string]any, key string, v any) {
	a, ok := v.(*Array[E])
	if !ok {
		return
	}
	a.root = root
	a.parent = parent
	a.key = key
	a.items, _ = parent[key].([]any)
	root.store(a.items, a)
}
