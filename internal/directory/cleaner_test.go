package directory

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/layerconf/internal/model"
)

// populate creates a nested file beneath dir and returns the first
// subdirectory it created.
func populate(t *testing.T, dir string, parts ...string) string {
	t.Helper()

	nested := filepath.Join(append([]string{dir}, parts...)...)
	require.NoError(t, os.MkdirAll(nested, 0o777))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "file"), []byte("data"), 0o644))
	return filepath.Join(dir, parts[0])
}

// TestClean_UnsupportedNames verifies the validation gate: one unknown name
// aborts the whole request before anything is touched.
func TestClean_UnsupportedNames(t *testing.T) {
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	some := populate(t, cacheDir, "some", "value")

	var out bytes.Buffer
	cleaner := NewCleaner(NewRegistry(map[string]string{"cache": cacheDir}), &out, nil)

	code := cleaner.Clean([]string{"cache", "log"})

	assert.Equal(t, model.ExitUnsupportedDirectories, code)
	assert.Equal(t, "Unsupported directory names: \"log\"\n", out.String())
	assert.DirExists(t, some, "known directories must not be cleaned")
}

func TestClean_UnsupportedNamesAreAllListed(t *testing.T) {
	var out bytes.Buffer
	cleaner := NewCleaner(NewRegistry(map[string]string{"cache": t.TempDir()}), &out, nil)

	code := cleaner.Clean([]string{"log", "cache", "tmp"})

	assert.Equal(t, model.ExitCode(1), code)
	assert.Equal(t, "Unsupported directory names: \"log\", \"tmp\"\n", out.String())
}

// TestClean_MissingDirectory verifies that a declared but missing directory
// is reported as not cleaned and the batch continues.
func TestClean_MissingDirectory(t *testing.T) {
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	logDir := filepath.Join(base, "log")
	logged := populate(t, logDir, "another")

	var out bytes.Buffer
	cleaner := NewCleaner(NewRegistry(map[string]string{"cache": cacheDir, "log": logDir}), &out, nil)

	code := cleaner.Clean([]string{"cache", "log"})

	assert.Equal(t, model.ExitCleanFailed, code)
	expected := fmt.Sprintf("Start clean directory with name \"cache\" at path \"%s\"\n"+
		"Directory with name \"cache\" at path \"%s\" could not be cleaned\n"+
		"Start clean directory with name \"log\" at path \"%s\"\n", cacheDir, cacheDir, logDir)
	assert.Equal(t, expected, out.String())
	assert.NoDirExists(t, logged)
}

// TestClean_RemovesContentsKeepsDirectories is the end-to-end scenario:
// nested content disappears, the declared directories remain and are empty.
func TestClean_RemovesContentsKeepsDirectories(t *testing.T) {
	base := t.TempDir()
	cacheDir := filepath.Join(base, "cache")
	logDir := filepath.Join(base, "log")
	some := populate(t, cacheDir, "some", "value", "to", "clean")
	another := populate(t, logDir, "another", "value", "to", "clean")
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "top"), []byte("x"), 0o644))

	var out bytes.Buffer
	cleaner := NewCleaner(NewRegistry(map[string]string{"cache": cacheDir, "log": logDir}), &out, nil)

	code := cleaner.Clean([]string{"cache", "log"})

	assert.Equal(t, model.ExitSuccess, code)
	assert.NoDirExists(t, some)
	assert.NoDirExists(t, another)
	assert.DirExists(t, cacheDir)
	assert.DirExists(t, logDir)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	expected := fmt.Sprintf("Start clean directory with name \"cache\" at path \"%s\"\n"+
		"Start clean directory with name \"log\" at path \"%s\"\n", cacheDir, logDir)
	assert.Equal(t, expected, out.String())
}

// TestClean_RequestOrder verifies that directories are processed in the
// order they were requested, not in registry order.
func TestClean_RequestOrder(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	reg, err := Register(map[string]string{"a": a, "b": b})
	require.NoError(t, err)

	var out bytes.Buffer
	code := NewCleaner(reg, &out, nil).Clean([]string{"b", "a"})

	assert.Equal(t, model.ExitSuccess, code)
	expected := fmt.Sprintf("Start clean directory with name \"b\" at path \"%s\"\n"+
		"Start clean directory with name \"a\" at path \"%s\"\n", b, a)
	assert.Equal(t, expected, out.String())
}

// TestRemoveContents_DoesNotFollowSymlinks verifies that a link to a
// directory outside the cleaned tree is removed without touching its target.
func TestRemoveContents_DoesNotFollowSymlinks(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	outside := populate(t, target, "precious")

	root := filepath.Join(base, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	require.NoError(t, RemoveContents(root))

	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	assert.DirExists(t, outside)
	assert.DirExists(t, root)
}

func TestRemoveContents_MissingRoot(t *testing.T) {
	err := RemoveContents(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}
