package resource

import (
	"reflect"
	"sync"
)

// memo maps a wire object (a map[string]any or a non-empty []any) to the
// wrapper handed out for it, so repeated reads of a nested field return the
// same wrapper. One memo is shared by a top-level instance and everything
// reachable from it.
//
// Entries keep the wire object alive, so an address cannot be reused by a
// different allocation while its entry exists.
type memo struct {
	mu      sync.Mutex
	entries map[memoKey]memoEntry
}

type memoKey struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

type memoEntry struct {
	wire    any
	wrapper any
}

func newMemo() *memo {
	return &memo{entries: make(map[memoKey]memoEntry)}
}

// identity returns the memo key of a wire object. Scalars, nil maps and
// zero-capacity slices have no stable identity.
func identity(w any) (memoKey, bool) {
	rv := reflect.ValueOf(w)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return memoKey{}, false
		}
		return memoKey{kind: reflect.Map, ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Cap() == 0 {
			return memoKey{}, false
		}
		return memoKey{kind: reflect.Slice, ptr: rv.Pointer(), len: rv.Len()}, true
	}
	return memoKey{}, false
}

// lookup returns the wrapper registered for w, calling create and
// registering its result when there is none.
func (m *memo) lookup(w any, create func() any) any {
	key, ok := identity(w)
	if !ok {
		return create()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		return e.wrapper
	}
	wrapper := create()
	m.entries[key] = memoEntry{wire: w, wrapper: wrapper}
	return wrapper
}

// store registers wrapper for w, replacing any previous entry.
func (m *memo) store(w, wrapper any) {
	key, ok := identity(w)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoEntry{wire: w, wrapper: wrapper}
}

// forget drops the entry for w.
func (m *memo) forget(w any) {
	key, ok := identity(w)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// reset drops every entry. It is called when attributes are replaced
// wholesale.
func (m *memo) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[memoKey]memoEntry)
}

func (m *memo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
