// Package provider resolves the configuration variant for the active
// environment.
//
// Two capabilities are recognised:
//
//   - Config: a single configuration variant exposing its configuration
//     tree and its declared directories
//   - Provider: a set of variants keyed by environment name
//
// A caller hands an arbitrary value to NewSource, which decides once which
// capability the value offers and returns a Source, a tagged union over the
// two. Resolving the active variant afterwards is a plain switch on the tag.
package provider

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/tree"
)

// Capability names reported in CapabilityError.
const (
	ConfigCapability   = "provider.Config"
	ProviderCapability = "provider.Provider"
)

// ErrUnknownEnvironment is returned by Map when no variant is registered
// for the requested environment.
var ErrUnknownEnvironment = errors.New("unknown environment")

// ErrNilConfig is returned by Source.Resolve when the source yields no
// variant.
var ErrNilConfig = errors.New("no configuration variant")

// Config is a single configuration variant.
type Config interface {
	// Config returns the configuration tree to merge into the container.
	Config() *tree.Tree

	// Directories returns the declared directories, logical name to path.
	Directories() map[string]string
}

// Provider returns the configuration variant for an environment.
type Provider interface {
	Get(environment string) (Config, error)
}

// SourceKind tags the variant held by a Source.
type SourceKind uint8

const (
	// SourceSingle holds one Config used for every environment.
	SourceSingle SourceKind = iota + 1

	// SourceProvider holds a Provider consulted per environment.
	SourceProvider
)

// String returns the name of the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceSingle:
		return "single"
	case SourceProvider:
		return "provider"
	default:
		return "invalid"
	}
}

// Source is the resolved capability of a configuration input.
type Source struct {
	kind     SourceKind
	single   Config
	provider Provider
}

// Single returns a Source holding a single Config.
func Single(cfg Config) Source {
	return Source{kind: SourceSingle, single: cfg}
}

// FromProvider returns a Source holding a Provider.
func FromProvider(p Provider) Source {
	return Source{kind: SourceProvider, provider: p}
}

// NewSource inspects v once and returns the matching Source.
//
// A value implementing Config is preferred; if it also implements Provider a
// warning Diagnostic notes that the Provider side is ignored. A value
// implementing only Provider is accepted but deprecated: one Diagnostic is
// appended to sink (sink may be nil). A value implementing neither yields a
// *model.CapabilityError naming both capabilities and the actual type.
func NewSource(v any, sink DiagnosticSink) (Source, error) {
	switch input := v.(type) {
	case Config:
		if _, both := v.(Provider); both && sink != nil {
			sink.Emit(Diagnostic{
				Level:   LevelWarning,
				Message: fmt.Sprintf("%T implements both %s and %s, using it as a %s", v, ConfigCapability, ProviderCapability, ConfigCapability),
			})
		}
		return Single(input), nil
	case Provider:
		if sink != nil {
			sink.Emit(Diagnostic{
				Level:   LevelDeprecation,
				Message: fmt.Sprintf("passing a %s (%T) is deprecated, pass a %s instead", ProviderCapability, v, ConfigCapability),
			})
		}
		return FromProvider(input), nil
	default:
		return Source{}, &model.CapabilityError{
			Required: []string{ConfigCapability, ProviderCapability},
			Actual:   fmt.Sprintf("%T", v),
		}
	}
}

// Kind returns the tag of the source.
func (s Source) Kind() SourceKind {
	return s.kind
}

// Resolve returns the configuration variant for environment. A single
// Config is returned regardless of the environment. A nil variant yields
// an error wrapping ErrNilConfig.
func (s Source) Resolve(environment string) (Config, error) {
	switch s.kind {
	case SourceSingle:
		if isNil(s.single) {
			return nil, ErrNilConfig
		}
		return s.single, nil
	case SourceProvider:
		if isNil(s.provider) {
			return nil, fmt.Errorf("resolving configuration for environment %q: %w", environment, ErrNilConfig)
		}
		cfg, err := s.provider.Get(environment)
		if err != nil {
			return nil, fmt.Errorf("resolving configuration for environment %q: %w", environment, err)
		}
		if isNil(cfg) {
			return nil, fmt.Errorf("resolving configuration for environment %q: %w", environment, ErrNilConfig)
		}
		return cfg, nil
	default:
		return nil, &model.CapabilityError{
			Required: []string{ConfigCapability, ProviderCapability},
			Actual:   "<nil>",
		}
	}
}

// isNil reports whether v is nil or holds a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Map is an in-memory Provider keyed by environment name.
type Map map[string]Config

// Get returns the variant registered for environment.
func (m Map) Get(environment string) (Config, error) {
	cfg, ok := m[environment]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownEnvironment, environment, m.Environments())
	}
	return cfg, nil
}

// Environments returns the registered environment names, sorted.
func (m Map) Environments() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Static is a Config built from values known up front.
type Static struct {
	Tree *tree.Tree
	Dirs map[string]string
}

// Config returns the configuration tree.
func (s *Static) Config() *tree.Tree {
	if s.Tree == nil {
		return tree.New()
	}
	return s.Tree
}

// Directories returns the declared directories.
func (s *Static) Directories() map[string]string {
	return s.Dirs
}
