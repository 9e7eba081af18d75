package token

import (
	"iter"
	"maps"
	"slices"
)

// Map is an insertion-ordered string-keyed container of Values. It carries the
// caller payload ("data") and extra header fields. A nil *Map behaves as an
// empty, read-only map.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// MapOf converts a plain Go map; keys are sorted to keep encoding deterministic.
func MapOf(src map[string]any) (*Map, error) {
	m := NewMap()
	for _, k := range slices.Sorted(maps.Keys(src)) {
		v, err := ValueOf(src[k])
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

// Set stores v under key. Existing keys keep their position. Returns m for chaining.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// SetString is shorthand for Set(key, String(s)).
func (m *Map) SetString(key, s string) *Map {
	return m.Set(key, String(s))
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value under key if it is a string.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *Map) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a copy; nested values are immutable and shared.
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	out.keys = slices.Clone(m.keys)
	maps.Copy(out.values, m.values)
	return out
}

// Equal reports whether both maps hold equal values in the same key order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if o.keys[i] != k || !m.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// Interface converts the map into map[string]any.
func (m *Map) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = v.Interface()
	}
	return out
}
