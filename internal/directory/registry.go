package directory

import (
	"errors"
	"os"
	"sort"

	"github.com/shinji-kodama/layerconf/internal/model"
)

// DirMode is the permission mode used when creating a declared directory.
// The process umask still applies.
const DirMode os.FileMode = 0o775

// Registry maps logical directory names to filesystem paths. The set of
// names is fixed at construction.
type Registry struct {
	paths map[string]string
	names []string
}

// NewRegistry creates a Registry from a name to path mapping. The mapping is
// copied.
func NewRegistry(dirs map[string]string) *Registry {
	r := &Registry{
		paths: make(map[string]string, len(dirs)),
		names: make([]string, 0, len(dirs)),
	}
	for name, path := range dirs {
		r.paths[name] = path
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r
}

// Register creates a Registry and materializes every declared directory.
func Register(dirs map[string]string) (*Registry, error) {
	r := NewRegistry(dirs)
	if err := r.Materialize(); err != nil {
		return nil, err
	}
	return r, nil
}

// Names returns the declared names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Path returns the path declared for name.
func (r *Registry) Path(name string) (string, bool) {
	p, ok := r.paths[name]
	return p, ok
}

// Has reports whether name is declared.
func (r *Registry) Has(name string) bool {
	_, ok := r.paths[name]
	return ok
}

// All returns a copy of the name to path mapping.
func (r *Registry) All() map[string]string {
	out := make(map[string]string, len(r.paths))
	for name, path := range r.paths {
		out[name] = path
	}
	return out
}

// Len returns the number of declared directories.
func (r *Registry) Len() int {
	return len(r.names)
}

// Materialize makes sure every declared directory exists, creating missing
// ones together with their missing ancestors using DirMode. Existing
// directories are left untouched, so calling Materialize repeatedly is
// safe. Directories are processed in sorted name order and the first
// failure is returned as a *model.DirectoryCreationError.
func (r *Registry) Materialize() error {
	for _, name := range r.names {
		if err := ensureDir(name, r.paths[name]); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(name, path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return &model.DirectoryCreationError{
				Name: name,
				Path: path,
				Err:  errors.New("path exists and is not a directory"),
			}
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return &model.DirectoryCreationError{Name: name, Path: path, Err: err}
	}

	if err := os.MkdirAll(path, DirMode); err != nil {
		return &model.DirectoryCreationError{Name: name, Path: path, Err: err}
	}
	return nil
}
