package tree

import (
	"fmt"
	"strconv"
)

// Key identifies an entry in a Tree. A key is either a name (string key)
// or a non-negative integer index. Keys are comparable and can be used as
// map keys.
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Name returns a string key.
func Name(name string) Key {
	return Key{name: name}
}

// Index returns an integer index key.
func Index(i int) Key {
	return Key{index: i, isIndex: true}
}

// ParseKey converts a raw key as found in a configuration document into a
// Key. Canonical non-negative decimal integers ("0", "12" but not "012" or
// "-1") become index keys, everything else stays a name.
func ParseKey(raw string) Key {
	if raw == "" || (len(raw) > 1 && raw[0] == '0') {
		return Name(raw)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return Name(raw)
		}
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return Name(raw)
	}
	return Index(i)
}

// IsIndex reports whether the key is an integer index.
func (k Key) IsIndex() bool {
	return k.isIndex
}

// Int returns the integer value of an index key. It returns -1 for name keys.
func (k Key) Int() int {
	if !k.isIndex {
		return -1
	}
	return k.index
}

// String returns the key as it appears in dotted paths.
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Tree is an ordered mapping from keys to nodes. The zero value is not
// usable; create trees with New or FromValue.
type Tree struct {
	keys   []Key
	values map[Key]Node
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{values: make(map[Key]Node)}
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (t *Tree) Keys() []Key {
	keys := make([]Key, len(t.keys))
	copy(keys, t.keys)
	return keys
}

// Get returns the node stored under key.
func (t *Tree) Get(key Key) (Node, bool) {
	n, ok := t.values[key]
	return n, ok
}

// Lookup is a shorthand for Get(Name(name)).
func (t *Tree) Lookup(name string) (Node, bool) {
	return t.Get(Name(name))
}

// Has reports whether key is present.
func (t *Tree) Has(key Key) bool {
	_, ok := t.values[key]
	return ok
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended at the end.
func (t *Tree) Set(key Key, value Node) {
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// SetValue converts value with FromValue and stores it under a name key.
func (t *Tree) SetValue(name string, value any) {
	t.Set(Name(name), FromValue(value))
}

// NextIndex returns the index an appended value would receive: one past the
// highest index key, or 0 when the tree has no index keys.
func (t *Tree) NextIndex() int {
	next := 0
	for _, k := range t.keys {
		if k.isIndex && k.index >= next {
			next = k.index + 1
		}
	}
	return next
}

// Append stores value under NextIndex and returns the key it was stored at.
func (t *Tree) Append(value Node) Key {
	key := Index(t.NextIndex())
	t.Set(key, value)
	return key
}

// IsList reports whether every key is an index key. An empty tree is
// list-like. Gaps in the indices do not matter.
func (t *Tree) IsList() bool {
	for _, k := range t.keys {
		if !k.isIndex {
			return false
		}
	}
	return true
}

// isSequence reports whether the tree is a list with indices 0..n-1 in
// order, which is the shape that can be rendered as a YAML sequence.
func (t *Tree) isSequence() bool {
	for i, k := range t.keys {
		if !k.isIndex || k.index != i {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		keys:   make([]Key, len(t.keys)),
		values: make(map[Key]Node, len(t.values)),
	}
	copy(out.keys, t.keys)
	for k, v := range t.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Native converts the tree into plain Go values: list-like trees with
// sequential indices become []any, every other tree becomes map[string]any.
// Key order is lost; use the Tree itself when order matters.
func (t *Tree) Native() any {
	if t.Len() > 0 && t.isSequence() {
		out := make([]any, 0, t.Len())
		for _, k := range t.keys {
			out = append(out, t.values[k].native())
		}
		return out
	}
	out := make(map[string]any, t.Len())
	for _, k := range t.keys {
		out[k.String()] = t.values[k].native()
	}
	return out
}

// Equal reports whether two trees hold the same keys in the same order with
// equal values.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.keys) != len(other.keys) {
		return false
	}
	for i, k := range t.keys {
		if other.keys[i] != k {
			return false
		}
		if !t.values[k].Equal(other.values[k]) {
			return false
		}
	}
	return true
}

// String renders the tree in a compact, ordered, human-readable form such
// as {key:{key1:value},list:{0:a,2:b}}. It is intended for test failure
// messages and debug logging.
func (t *Tree) String() string {
	if t == nil {
		return "<nil>"
	}
	s := "{"
	for i, k := range t.keys {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%s:%s", k, t.values[k])
	}
	return s + "}"
}
