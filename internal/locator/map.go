package locator

import (
	"fmt"
	"iter"
)

// Map is an ordered mapping from semantic element name to Locator.
// Setting an existing key replaces its locator but keeps its position.
type Map struct {
	keys    []string
	entries map[string]Locator
}

// NewMap returns an empty map
func NewMap() *Map {
	return &Map{entries: make(map[string]Locator)}
}

// Set stores l under key and returns m for chaining
func (m *Map) Set(key string, l Locator) *Map {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = l
	return m
}

// Get returns the locator stored under key
func (m *Map) Get(key string) (Locator, bool) {
	if m == nil {
		return Locator{}, false
	}
	l, ok := m.entries[key]
	return l, ok
}

// MustGet returns the locator stored under key and panics if it is missing.
// Screen code uses it with its own declared key constants.
func (m *Map) MustGet(key string) Locator {
	l, ok := m.Get(key)
	if !ok {
		panic(fmt.Sprintf("locator: no entry %q", key))
	}
	return l
}

// Has reports whether key is present
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates entries in insertion order
func (m *Map) All() iter.Seq2[string, Locator] {
	return func(yield func(string, Locator) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m
func (m *Map) Clone() *Map {
	out := NewMap()
	for k, l := range m.All() {
		out.Set(k, l)
	}
	return out
}

// Extend sets every entry of other onto m, other winning on collisions
func (m *Map) Extend(other *Map) *Map {
	for k, l := range other.All() {
		m.Set(k, l)
	}
	return m
}

// Builder produces a locator map scoped under scope. Builders must be pure:
// they only compose locators and never resolve them.
type Builder func(scope Locator) *Map

// Empty is a Builder producing no entries
func Empty(Locator) *Map { return NewMap() }

// Expand returns a builder producing onLoad(scope) followed by extra(scope).
// The result is always a superset of onLoad(scope).
func Expand(onLoad, extra Builder) Builder {
	return func(scope Locator) *Map {
		m := NewMap()
		if onLoad != nil {
			m.Extend(onLoad(scope))
		}
		if extra != nil {
			m.Extend(extra(scope))
		}
		return m
	}
}

// Source is one labelled input to Merge
type Source struct {
	Label string
	Map   *Map
}

// Collision records a key declared by more than one merge source
type Collision struct {
	Key      string
	Shadowed string
	Winner   string
}

func (c Collision) String() string {
	return fmt.Sprintf("%s: %s shadowed by %s", c.Key, c.Shadowed, c.Winner)
}

// Merge folds sources in order into a new map. Later sources win on key
// collisions and every shadowed key is reported.
func Merge(sources ...Source) (*Map, []Collision) {
	out := NewMap()
	owner := make(map[string]string)
	var collisions []Collision
	for _, src := range sources {
		for k, l := range src.Map.All() {
			if prev, ok := owner[k]; ok {
				collisions = append(collisions, Collision{Key: k, Shadowed: prev, Winner: src.Label})
			}
			owner[k] = src.Label
			out.Set(k, l)
		}
	}
	return out, collisions
}
