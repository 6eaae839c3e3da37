package container

import (
	"fmt"
	"sort"

	"github.com/shinji-kodama/layerconf/internal/directory"
	"github.com/shinji-kodama/layerconf/internal/logger"
	"github.com/shinji-kodama/layerconf/internal/merge"
	"github.com/shinji-kodama/layerconf/internal/provider"
	"github.com/shinji-kodama/layerconf/internal/tree"
)

const (
	// DefaultEnvironmentKey is the container key holding the environment name.
	DefaultEnvironmentKey = "env"

	// DefaultDirectoriesKey is the container key the declared directories
	// are stored under.
	DefaultDirectoriesKey = "layerconf.config.directories"
)

// ServiceProvider registers a configuration source into a Container.
type ServiceProvider struct {
	// Source yields the configuration variant for the active environment.
	Source provider.Source

	// EnvironmentKey is the container key read to obtain the environment
	// name. Defaults to DefaultEnvironmentKey.
	EnvironmentKey string

	// DirectoriesKey is the container key the declared directories are
	// written to. Defaults to DefaultDirectoriesKey.
	DirectoriesKey string

	// Log receives debug output about merged keys. May be nil.
	Log *logger.Logger
}

// NewServiceProvider creates a ServiceProvider with default keys.
func NewServiceProvider(src provider.Source, log *logger.Logger) *ServiceProvider {
	return &ServiceProvider{
		Source:         src,
		EnvironmentKey: DefaultEnvironmentKey,
		DirectoriesKey: DefaultDirectoriesKey,
		Log:            log,
	}
}

// Register resolves the configuration variant for the container's
// environment, merges it onto the container and materializes the declared
// directories.
//
// Every top-level key of the configuration tree is merged onto the entry of
// the same name. All keys are merged before any is written back, so a type
// conflict (*model.MergeError) leaves the container untouched. Directory
// creation failures are returned as *model.DirectoryCreationError.
func (p *ServiceProvider) Register(c Container) (*directory.Registry, error) {
	log := p.Log
	if log == nil {
		log = logger.Nop()
	}

	// Step 1: Resolve the configuration variant for the active environment.
	env, err := Environment(c, p.environmentKey())
	if err != nil {
		return nil, err
	}

	cfg, err := p.Source.Resolve(env)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("environment", env).Str("source", p.Source.Kind().String()).Msg("configuration resolved")

	// Step 2: Merge every top-level key, committing only when all succeeded.
	updates, err := MergeTree(c, cfg.Config())
	if err != nil {
		return nil, err
	}
	for _, u := range updates {
		c.Set(u.Key, u.Value)
		log.Debug().Str("key", u.Key).Bool("merged", u.Merged).Msg("configuration key registered")
	}

	// Step 3: Store and materialize the declared directories.
	dirs := copyDirectories(cfg.Directories())
	c.Set(p.directoriesKey(), dirs)

	registry, err := directory.Register(dirs)
	if err != nil {
		return nil, err
	}
	for _, name := range registry.Names() {
		path, _ := registry.Path(name)
		log.Debug().Str("name", name).Str("path", path).Msg("directory ready")
	}

	return registry, nil
}

// Update is a pending write produced by MergeTree.
type Update struct {
	Key   string
	Value any

	// Merged is true when the value was merged onto an existing entry.
	Merged bool
}

// MergeTree merges each top-level entry of incoming onto the container
// entry of the same name and returns the resulting writes in incoming's
// key order. The container itself is not modified.
func MergeTree(c Container, incoming *tree.Tree) ([]Update, error) {
	if incoming == nil {
		return nil, nil
	}

	updates := make([]Update, 0, incoming.Len())
	for _, key := range incoming.Keys() {
		name := key.String()
		value, _ := incoming.Get(key)

		existing, ok := c.Get(name)
		if !ok {
			updates = append(updates, Update{Key: name, Value: value.Clone().Interface()})
			continue
		}

		merged, err := merge.Value(tree.FromValue(existing), value, name)
		if err != nil {
			return nil, err
		}
		updates = append(updates, Update{Key: name, Value: merged.Interface(), Merged: true})
	}
	return updates, nil
}

// Environment reads the environment name stored under key.
func Environment(c Container, key string) (string, error) {
	v, ok := c.Get(key)
	if !ok {
		return "", fmt.Errorf("container has no environment entry %q", key)
	}
	env, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("container entry %q must be a string, got %T", key, v)
	}
	return env, nil
}

// Directories returns the directories stored by Register under key.
func Directories(c Container, key string) (map[string]string, error) {
	v, ok := c.Get(key)
	if !ok {
		return nil, fmt.Errorf("container has no directories entry %q", key)
	}
	dirs, ok := v.(map[string]string)
	if !ok {
		return nil, fmt.Errorf("container entry %q must be a map[string]string, got %T", key, v)
	}
	return dirs, nil
}

func (p *ServiceProvider) environmentKey() string {
	if p.EnvironmentKey == "" {
		return DefaultEnvironmentKey
	}
	return p.EnvironmentKey
}

func (p *ServiceProvider) directoriesKey() string {
	if p.DirectoriesKey == "" {
		return DefaultDirectoriesKey
	}
	return p.DirectoriesKey
}

func copyDirectories(dirs map[string]string) map[string]string {
	out := make(map[string]string, len(dirs))
	for name, path := range dirs {
		out[name] = path
	}
	return out
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
