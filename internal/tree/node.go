package tree

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind is the structural kind of a Node. The set is closed: every switch over
// Kind in this module handles all three values.
type Kind uint8

const (
	// KindScalar is a leaf value.
	KindScalar Kind = iota

	// KindMapping is a nested tree with at least one name key.
	KindMapping

	// KindList is a nested tree whose keys are all integer indices.
	KindList
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Type names reported in merge errors. Mappings and lists share the "array"
// name because both are containers that merge into each other.
const (
	TypeNull    = "NULL"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeDouble  = "double"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Node is a single value in a configuration tree: either a scalar or a
// nested Tree. The zero Node is the NULL scalar.
type Node struct {
	scalar any
	tree   *Tree
}

// Scalar wraps a leaf value. Use FromValue when the value may be a map or
// a slice.
func Scalar(v any) Node {
	return Node{scalar: v}
}

// Of wraps a nested tree. A nil tree yields the NULL scalar.
func Of(t *Tree) Node {
	return Node{tree: t}
}

// Kind returns the structural kind of the node.
func (n Node) Kind() Kind {
	if n.tree == nil {
		return KindScalar
	}
	if n.tree.IsList() {
		return KindList
	}
	return KindMapping
}

// IsTree reports whether the node holds a nested tree (mapping or list).
func (n Node) IsTree() bool {
	return n.tree != nil
}

// IsNull reports whether the node is the NULL scalar.
func (n Node) IsNull() bool {
	return n.tree == nil && n.scalar == nil
}

// Tree returns the nested tree, or nil for scalars.
func (n Node) Tree() *Tree {
	return n.tree
}

// Value returns the scalar value, or nil for nested trees.
func (n Node) Value() any {
	if n.tree != nil {
		return nil
	}
	return n.scalar
}

// Interface returns the node as a value suitable for storing in a
// container: the scalar itself, or the *Tree for nested nodes.
func (n Node) Interface() any {
	if n.tree != nil {
		return n.tree
	}
	return n.scalar
}

// TypeName returns the type name used in merge errors.
func (n Node) TypeName() string {
	switch n.Kind() {
	case KindMapping, KindList:
		return TypeArray
	case KindScalar:
		return scalarTypeName(n.scalar)
	}
	return TypeObject
}

func scalarTypeName(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32, float64:
		return TypeDouble
	case string:
		return TypeString
	default:
		return TypeObject
	}
}

// Clone returns a deep copy of the node. Scalars are copied by value.
func (n Node) Clone() Node {
	if n.tree != nil {
		return Node{tree: n.tree.Clone()}
	}
	return n
}

// Equal reports whether two nodes are structurally equal.
func (n Node) Equal(other Node) bool {
	if n.tree != nil || other.tree != nil {
		return n.tree.Equal(other.tree)
	}
	return reflect.DeepEqual(n.scalar, other.scalar)
}

// String renders the node for debugging.
func (n Node) String() string {
	if n.tree != nil {
		return n.tree.String()
	}
	if n.scalar == nil {
		return "null"
	}
	return fmt.Sprint(n.scalar)
}

func (n Node) native() any {
	if n.tree != nil {
		return n.tree.Native()
	}
	return n.scalar
}

// FromValue converts a native Go value into a Node.
//
// Conversion rules:
//   - Node and *Tree values are used as they are
//   - maps with string keys become mappings, keys sorted for determinism
//   - maps with integer keys become lists keyed by those integers, sorted
//   - slices and arrays (except []byte) become lists indexed from 0
//   - everything else is a scalar
func FromValue(v any) Node {
	switch tv := v.(type) {
	case nil:
		return Node{}
	case Node:
		return tv
	case *Tree:
		return Of(tv)
	case []byte:
		return Scalar(tv)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return fromMap(rv)
	case reflect.Slice, reflect.Array:
		t := New()
		for i := 0; i < rv.Len(); i++ {
			t.Set(Index(i), FromValue(rv.Index(i).Interface()))
		}
		return Of(t)
	default:
		return Scalar(v)
	}
}

func fromMap(rv reflect.Value) Node {
	t := New()
	mapKeys := rv.MapKeys()

	switch rv.Type().Key().Kind() {
	case reflect.String:
		sort.Slice(mapKeys, func(i, j int) bool {
			return mapKeys[i].String() < mapKeys[j].String()
		})
		for _, mk := range mapKeys {
			t.Set(Name(mk.String()), FromValue(rv.MapIndex(mk).Interface()))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		sort.Slice(mapKeys, func(i, j int) bool {
			return mapKeys[i].Int() < mapKeys[j].Int()
		})
		for _, mk := range mapKeys {
			t.Set(Index(int(mk.Int())), FromValue(rv.MapIndex(mk).Interface()))
		}
	default:
		// Keys of any other type are stringified.
		sort.Slice(mapKeys, func(i, j int) bool {
			return fmt.Sprint(mapKeys[i].Interface()) < fmt.Sprint(mapKeys[j].Interface())
		})
		for _, mk := range mapKeys {
			t.Set(Name(fmt.Sprint(mk.Interface())), FromValue(rv.MapIndex(mk).Interface()))
		}
	}

	return Of(t)
}
