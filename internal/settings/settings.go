// Package settings translates a configuration variant into the settings bag
// of a host web framework.
//
// A variant takes part only if it implements FrameworkSettings. The mapping
// it returns replaces the bag's contents entirely; nothing is merged.
package settings

import (
	"fmt"
	"sort"

	"github.com/shinji-kodama/layerconf/internal/container"
	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/provider"
)

const (
	// Capability is the interface name reported when a variant lacks
	// FrameworkSettings.
	Capability = "settings.FrameworkSettings"

	// DefaultKey is the container key of the settings bag. It is namespaced
	// so a top-level "settings" entry of a configuration tree cannot
	// collide with it.
	DefaultKey = "layerconf.settings"
)

// FrameworkSettings is implemented by configuration variants that carry
// settings for the host framework (for example displayErrorDetails).
type FrameworkSettings interface {
	FrameworkSettings() map[string]any
}

// Bag is a framework settings bag whose contents can be replaced.
type Bag interface {
	Replace(values map[string]any)
}

// Apply replaces the contents of bag with the framework settings of cfg.
// A cfg that does not implement FrameworkSettings yields a
// *model.CapabilityError.
func Apply(cfg provider.Config, bag Bag) error {
	fs, err := frameworkSettings(cfg)
	if err != nil {
		return err
	}
	bag.Replace(fs.FrameworkSettings())
	return nil
}

func frameworkSettings(cfg provider.Config) (FrameworkSettings, error) {
	fs, ok := cfg.(FrameworkSettings)
	if !ok {
		return nil, &model.CapabilityError{
			Required: []string{Capability},
			Actual:   fmt.Sprintf("%T", cfg),
		}
	}
	return fs, nil
}

// Register resolves the variant for the container's environment and
// applies its framework settings to the Bag stored under DefaultKey. A new
// Collection is stored when the container has no bag yet. The container is
// left untouched when the variant lacks FrameworkSettings.
func Register(c container.Container, src provider.Source, environmentKey string) error {
	if environmentKey == "" {
		environmentKey = container.DefaultEnvironmentKey
	}

	env, err := container.Environment(c, environmentKey)
	if err != nil {
		return err
	}

	cfg, err := src.Resolve(env)
	if err != nil {
		return err
	}

	fs, err := frameworkSettings(cfg)
	if err != nil {
		return err
	}

	var bag Bag
	if v, ok := c.Get(DefaultKey); ok {
		bag, ok = v.(Bag)
		if !ok {
			return fmt.Errorf("container entry %q is not a settings bag, got %T", DefaultKey, v)
		}
	} else {
		collection := NewCollection(nil)
		c.Set(DefaultKey, collection)
		bag = collection
	}

	bag.Replace(fs.FrameworkSettings())
	return nil
}

// Collection is a simple settings bag.
type Collection struct {
	values map[string]any
}

// NewCollection creates a Collection holding a copy of values.
func NewCollection(values map[string]any) *Collection {
	c := &Collection{}
	c.Replace(values)
	return c
}

// All returns a copy of every setting.
func (c *Collection) All() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Get returns the setting stored under key.
func (c *Collection) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is set.
func (c *Collection) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Set stores a single setting.
func (c *Collection) Set(key string, value any) {
	c.values[key] = value
}

// Keys returns the setting names in sorted order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Replace discards every setting and stores a copy of values.
func (c *Collection) Replace(values map[string]any) {
	c.values = make(map[string]any, len(values))
	for k, v := range values {
		c.values[k] = v
	}
}
