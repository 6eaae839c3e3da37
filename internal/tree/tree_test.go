package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestParseKey verifies that only canonical non-negative decimal integers
// become index keys.
func TestParseKey(t *testing.T) {
	tests := []struct {
		raw     string
		isIndex bool
		index   int
	}{
		{"0", true, 0},
		{"12", true, 12},
		{"012", false, -1},
		{"-1", false, -1},
		{"key", false, -1},
		{"", false, -1},
		{"1a", false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			k := ParseKey(tt.raw)
			assert.Equal(t, tt.isIndex, k.IsIndex())
			assert.Equal(t, tt.index, k.Int())
			assert.Equal(t, tt.raw, k.String())
		})
	}
}

// TestTree_SetKeepsInsertionOrder checks that replacing an existing key does
// not move it, while new keys are appended.
func TestTree_SetKeepsInsertionOrder(t *testing.T) {
	tr := New()
	tr.SetValue("b", 1)
	tr.SetValue("a", 2)
	tr.SetValue("b", 3)

	assert.Equal(t, []Key{Name("b"), Name("a")}, tr.Keys())

	n, ok := tr.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 3, n.Value())
}

// TestTree_AppendUsesNextFreeIndex verifies that appending after a sparse
// list never reuses an existing index.
func TestTree_AppendUsesNextFreeIndex(t *testing.T) {
	tr := New()
	tr.Set(Index(0), Scalar("a"))
	tr.Set(Index(2), Scalar("b"))

	key := tr.Append(Scalar("c"))

	assert.Equal(t, Index(3), key)
	assert.Equal(t, []Key{Index(0), Index(2), Index(3)}, tr.Keys())
	assert.True(t, tr.IsList())
}

func TestTree_NextIndexIgnoresNames(t *testing.T) {
	tr := New()
	tr.SetValue("name", "x")
	assert.Equal(t, 0, tr.NextIndex())
	assert.False(t, tr.IsList())
}

// TestNode_Kind covers the closed set of node kinds.
func TestNode_Kind(t *testing.T) {
	list := New()
	list.Append(Scalar("x"))

	mapping := New()
	mapping.SetValue("k", "v")

	assert.Equal(t, KindScalar, Scalar("x").Kind())
	assert.Equal(t, KindScalar, Node{}.Kind())
	assert.Equal(t, KindList, Of(list).Kind())
	assert.Equal(t, KindList, Of(New()).Kind())
	assert.Equal(t, KindMapping, Of(mapping).Kind())
}

// TestNode_TypeName checks the type names reported in merge errors.
func TestNode_TypeName(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"nil", Scalar(nil), TypeNull},
		{"bool", Scalar(true), TypeBoolean},
		{"int", Scalar(1), TypeInteger},
		{"int64", Scalar(int64(1)), TypeInteger},
		{"uint16", Scalar(uint16(1)), TypeInteger},
		{"float", Scalar(1.5), TypeDouble},
		{"string", Scalar("x"), TypeString},
		{"struct", Scalar(struct{}{}), TypeObject},
		{"mapping", FromValue(map[string]any{"a": 1}), TypeArray},
		{"list", FromValue([]any{1}), TypeArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.node.TypeName())
		})
	}
}

// TestFromValue verifies conversion of native Go values, including sorted
// string keys and integer-keyed maps.
func TestFromValue(t *testing.T) {
	n := FromValue(map[string]any{
		"z": "last",
		"a": []string{"x", "y"},
		"m": map[int]string{2: "b", 0: "a"},
	})

	require.Equal(t, KindMapping, n.Kind())
	tr := n.Tree()
	assert.Equal(t, []Key{Name("a"), Name("m"), Name("z")}, tr.Keys())

	a, _ := tr.Lookup("a")
	assert.Equal(t, KindList, a.Kind())
	assert.Equal(t, []Key{Index(0), Index(1)}, a.Tree().Keys())

	m, _ := tr.Lookup("m")
	assert.Equal(t, []Key{Index(0), Index(2)}, m.Tree().Keys())

	assert.True(t, FromValue(nil).IsNull())
	assert.Equal(t, KindScalar, FromValue([]byte("raw")).Kind())
}

func TestTree_CloneIsDeep(t *testing.T) {
	inner := New()
	inner.SetValue("k", "v")
	tr := New()
	tr.Set(Name("inner"), Of(inner))

	clone := tr.Clone()
	inner.SetValue("k", "changed")

	n, _ := clone.Lookup("inner")
	v, _ := n.Tree().Lookup("k")
	assert.Equal(t, "v", v.Value())
}

func TestTree_Native(t *testing.T) {
	tr := New()
	tr.SetValue("list", []any{"a", "b"})
	sparse := New()
	sparse.Set(Index(0), Scalar("a"))
	sparse.Set(Index(2), Scalar("b"))
	tr.Set(Name("sparse"), Of(sparse))

	assert.Equal(t, map[string]any{
		"list":   []any{"a", "b"},
		"sparse": map[string]any{"0": "a", "2": "b"},
	}, tr.Native())
}

// TestTree_UnmarshalYAML verifies that decoding keeps document order,
// turns integer keys into index keys and expands merge keys.
func TestTree_UnmarshalYAML(t *testing.T) {
	doc := `
defaults: &defaults
  timeout: 5
  retries: 2
zeta: 1
alpha:
  <<: *defaults
  retries: 3
list:
  - a
  - b
sparse:
  0: x
  2: y
empty:
`
	var tr Tree
	require.NoError(t, yaml.Unmarshal([]byte(doc), &tr))

	assert.Equal(t, []Key{Name("defaults"), Name("zeta"), Name("alpha"), Name("list"), Name("sparse"), Name("empty")}, tr.Keys())

	alpha, _ := tr.Lookup("alpha")
	retries, _ := alpha.Tree().Lookup("retries")
	timeout, _ := alpha.Tree().Lookup("timeout")
	assert.Equal(t, 3, retries.Value())
	assert.Equal(t, 5, timeout.Value())

	sparse, _ := tr.Lookup("sparse")
	assert.Equal(t, []Key{Index(0), Index(2)}, sparse.Tree().Keys())

	empty, _ := tr.Lookup("empty")
	assert.True(t, empty.IsNull())
}

func TestTree_UnmarshalYAMLRejectsScalarDocument(t *testing.T) {
	var tr Tree
	assert.Error(t, yaml.Unmarshal([]byte(`just a string`), &tr))
}

// TestTree_MarshalYAML checks that sequential lists render as sequences and
// sparse lists as integer-keyed mappings, in insertion order.
func TestTree_MarshalYAML(t *testing.T) {
	tr := New()
	tr.SetValue("name", "app")
	tr.SetValue("list", []any{"a", "b"})
	sparse := New()
	sparse.Set(Index(0), Scalar("x"))
	sparse.Set(Index(2), Scalar("y"))
	tr.Set(Name("sparse"), Of(sparse))

	out, err := yaml.Marshal(tr)
	require.NoError(t, err)

	expected := `name: app
list:
    - a
    - b
sparse:
    0: x
    2: y
`
	assert.Equal(t, expected, string(out))
}
