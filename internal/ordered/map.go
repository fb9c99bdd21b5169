// Package ordered provides a string-keyed map that remembers insertion order
// and keeps that order when encoded to or decoded from JSON.
//
// The build descriptor and the chunk manifests are read by tools that iterate
// object keys in document order, so the order in which apps and entrypoints
// were discovered has to survive serialization.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/tidwall/gjson"
)

// Map is an insertion-ordered map from string keys to values of type V.
// The zero value is an empty map ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set stores v under key. A key that is already present keeps its position.
func (m *Map[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// SetIfAbsent stores v under key only when key is not present yet. It reports
// whether the value was stored.
func (m *Map[V]) SetIfAbsent(key string, v V) bool {
	if m.Has(key) {
		return false
	}
	m.Set(key, v)
	return true
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of keys.
func (m *Map[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// All iterates over the key/value pairs in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m.
func (m *Map[V]) Clone() *Map[V] {
	c := New[V]()
	for k, v := range m.All() {
		c.Set(k, v)
	}
	return c
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encode(k)
		if err != nil {
			return nil, err
		}
		val, err := encode(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its keys in document order.
func (m *Map[V]) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON object")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("expected a JSON object, got %s", root.Type)
	}

	*m = Map[V]{values: make(map[string]V)}
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		var v V
		if err := json.Unmarshal([]byte(value.Raw), &v); err != nil {
			decodeErr = fmt.Errorf("failed to decode value for key %q: %w", key.String(), err)
			return false
		}
		m.Set(key.String(), v)
		return true
	})
	return decodeErr
}

// encode marshals v without HTML escaping so paths and globs stay readable.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
