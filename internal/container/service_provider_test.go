package container

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/provider"
	"github.com/shinji-kodama/layerconf/internal/tree"
)

type mockConfig struct {
	mock.Mock
}

func (m *mockConfig) Config() *tree.Tree {
	return m.Called().Get(0).(*tree.Tree)
}

func (m *mockConfig) Directories() map[string]string {
	return m.Called().Get(0).(map[string]string)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Get(environment string) (provider.Config, error) {
	args := m.Called(environment)
	cfg, _ := args.Get(0).(provider.Config)
	return cfg, args.Error(1)
}

// mapping builds an ordered tree from alternating name/value pairs.
func mapping(pairs ...any) *tree.Tree {
	t := tree.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Set(tree.Name(pairs[i].(string)), tree.FromValue(pairs[i+1]))
	}
	return t
}

func list(pairs ...any) *tree.Tree {
	t := tree.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Set(tree.Index(pairs[i].(int)), tree.FromValue(pairs[i+1]))
	}
	return t
}

// setup returns a provider-backed ServiceProvider expecting one lookup of
// the "dev" environment.
func setup(t *testing.T, config *tree.Tree, dirs map[string]string) (*ServiceProvider, *mockConfig, *mockProvider) {
	t.Helper()

	cfg := &mockConfig{}
	cfg.On("Config").Return(config).Once()
	if dirs != nil {
		cfg.On("Directories").Return(dirs).Once()
	}

	p := &mockProvider{}
	p.On("Get", "dev").Return(cfg, nil).Once()

	return NewServiceProvider(provider.FromProvider(p), nil), cfg, p
}

func TestRegister(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sample")
	dirs := map[string]string{"sample": dir}
	sp, cfg, p := setup(t, mapping("key", "value"), dirs)

	c := NewMap(map[string]any{"env": "dev"})
	assert.NoDirExists(t, dir)

	registry, err := sp.Register(c)
	require.NoError(t, err)

	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	stored, err := Directories(c, DefaultDirectoriesKey)
	require.NoError(t, err)
	assert.Equal(t, dirs, stored)

	assert.DirExists(t, dir)
	assert.Equal(t, []string{"sample"}, registry.Names())

	cfg.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestRegister_WithExistingScalar(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sample")
	sp, _, _ := setup(t, mapping("key", "value"), map[string]string{"sample": dir})

	c := NewMap(map[string]any{"env": "dev", "key": "existingValue"})

	_, err := sp.Register(c)
	require.NoError(t, err)

	v, _ := c.Get("key")
	assert.Equal(t, "value", v)
	assert.DirExists(t, dir)
}

// TestRegister_WithExistingArray covers deep merging onto native container
// values: nested override, preserved siblings, list append and new keys.
func TestRegister_WithExistingArray(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sample")
	incoming := mapping(
		"env", "test",
		"key", mapping(
			"key1", mapping("key12", "value112"),
			"key3", list(0, "value33"),
			"key4", "value4",
		),
	)
	sp, _, _ := setup(t, incoming, map[string]string{"sample": dir})

	c := NewMap(map[string]any{
		"env": "dev",
		"key": map[string]any{
			"key1": map[string]any{"key11": "value11", "key12": "value12"},
			"key2": "value2",
			"key3": map[int]any{0: "value31", 2: "value32"},
		},
	})

	_, err := sp.Register(c)
	require.NoError(t, err)

	env, _ := c.Get("env")
	assert.Equal(t, "test", env)

	v, _ := c.Get("key")
	got, ok := v.(*tree.Tree)
	require.True(t, ok, "merged mappings are stored as trees, got %T", v)

	expected := mapping(
		"key1", mapping("key11", "value11", "key12", "value112"),
		"key2", "value2",
		"key3", list(0, "value31", 2, "value32", 3, "value33"),
		"key4", "value4",
	)
	assert.True(t, expected.Equal(got), "got %s", got)
	assert.DirExists(t, dir)
}

func TestRegister_WithExistingStringConvertToInt(t *testing.T) {
	sp, _, _ := setup(t, mapping("key", 1), nil)
	c := NewMap(map[string]any{"env": "dev", "key": "value"})

	_, err := sp.Register(c)

	assert.EqualError(t, err, `Type conversion from "string" to "integer" at path "key"`)
}

// TestRegister_ConflictCommitsNothing verifies that no key is written when
// any key conflicts, even keys that merged cleanly before the conflict.
func TestRegister_ConflictCommitsNothing(t *testing.T) {
	incoming := mapping(
		"fresh", "new",
		"key", mapping("key1", mapping("key12", list(0, "value112"))),
	)
	sp, _, _ := setup(t, incoming, nil)

	c := NewMap(map[string]any{
		"env": "dev",
		"key": map[string]any{"key1": map[string]any{"key11": "value11", "key12": "value12"}},
	})

	_, err := sp.Register(c)

	var mergeErr *model.MergeError
	require.True(t, errors.As(err, &mergeErr))
	assert.Equal(t, "key.key1.key12", mergeErr.Path)
	assert.Equal(t, "string", mergeErr.From)
	assert.Equal(t, "array", mergeErr.To)

	assert.False(t, c.Has("fresh"))
	assert.False(t, c.Has(DefaultDirectoriesKey))
}

func TestRegister_SingleConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfg := &provider.Static{Tree: mapping("debug", true), Dirs: map[string]string{"cache": dir}}

	src, err := provider.NewSource(cfg, nil)
	require.NoError(t, err)

	c := NewMap(map[string]any{"env": "whatever"})
	_, err = NewServiceProvider(src, nil).Register(c)
	require.NoError(t, err)

	v, _ := c.Get("debug")
	assert.Equal(t, true, v)
	assert.DirExists(t, dir)
}

func TestRegister_CustomKeys(t *testing.T) {
	cfg := &provider.Static{Tree: tree.New(), Dirs: map[string]string{}}
	sp := &ServiceProvider{
		Source:         provider.Single(cfg),
		EnvironmentKey: "environment",
		DirectoriesKey: "dirs",
	}

	c := NewMap(map[string]any{"environment": "prod"})
	_, err := sp.Register(c)
	require.NoError(t, err)
	assert.True(t, c.Has("dirs"))
}

func TestRegister_MissingEnvironment(t *testing.T) {
	sp := NewServiceProvider(provider.Single(&provider.Static{}), nil)

	_, err := sp.Register(NewMap(nil))
	assert.ErrorContains(t, err, `"env"`)

	_, err = sp.Register(NewMap(map[string]any{"env": 42}))
	assert.ErrorContains(t, err, "must be a string")
}

func TestRegister_UnknownEnvironment(t *testing.T) {
	sp := NewServiceProvider(provider.FromProvider(provider.Map{}), nil)

	_, err := sp.Register(NewMap(map[string]any{"env": "dev"}))
	assert.True(t, errors.Is(err, provider.ErrUnknownEnvironment))
}

func TestRegister_DirectoryCreationFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &provider.Static{Dirs: map[string]string{"cache": filepath.Join(blocker, "cache")}}
	_, err := NewServiceProvider(provider.Single(cfg), nil).Register(NewMap(map[string]any{"env": "dev"}))

	var dirErr *model.DirectoryCreationError
	assert.True(t, errors.As(err, &dirErr))
}

func TestMap(t *testing.T) {
	var m Map
	assert.False(t, m.Has("a"))

	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	tr := m.Tree()
	assert.Equal(t, []tree.Key{tree.Name("b"), tree.Name("a")}, tr.Keys())
}

func TestDirectories_WrongType(t *testing.T) {
	c := NewMap(map[string]any{DefaultDirectoriesKey: "nope"})
	_, err := Directories(c, DefaultDirectoriesKey)
	assert.Error(t, err)

	_, err = Directories(NewMap(nil), DefaultDirectoriesKey)
	assert.Error(t, err)
}

func TestRegister_NilVariant(t *testing.T) {
	c := NewMap(map[string]any{"env": "dev"})

	_, err := NewServiceProvider(provider.FromProvider(provider.Map{"dev": nil}), nil).Register(c)

	assert.ErrorIs(t, err, provider.ErrNilConfig)
	assert.Equal(t, []string{"env"}, c.Keys())
}
