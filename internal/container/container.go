// Package container adapts layerconf to a dependency-injection container.
//
// The host application supplies its container through the narrow Container
// interface. ServiceProvider.Register then runs the whole resolution flow:
// read the environment name from the container, resolve the configuration
// variant, deep-merge it onto the container's existing entries, store the
// declared directories and materialize them.
package container

import "github.com/shinji-kodama/layerconf/internal/tree"

// Container is the key-value view of a host DI container.
type Container interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Has(key string) bool
}

// Map is an insertion-ordered, map-backed Container. The zero value is
// ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates a Map pre-populated with values. Keys are inserted in
// sorted order.
func NewMap(values map[string]any) *Map {
	m := &Map{}
	for _, key := range sortedKeys(values) {
		m.Set(key, values[key])
	}
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *Map) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Tree returns the container's entries as a configuration tree, in
// insertion order.
func (m *Map) Tree() *tree.Tree {
	t := tree.New()
	for _, key := range m.keys {
		t.Set(tree.Name(key), tree.FromValue(m.values[key]))
	}
	return t
}
