// Package source loads configuration variants from files, one file per
// environment.
//
// A directory holds one variant per environment, named after it:
//
//	config/
//	  dev.yaml
//	  prod.yaml
//	  test.jsonc
//
// Each file has up to three top-level sections:
//
//	config:        # configuration tree merged into the container
//	  db:
//	    host: localhost
//	directories:   # logical name -> path
//	  cache: ../var/cache/${environment}
//	settings:      # optional framework settings
//	  displayErrorDetails: true
//
// YAML files are parsed with gopkg.in/yaml.v3 through its node API so that
// key order survives. JSON files may contain comments and trailing commas
// (JSONC); github.com/tidwall/jsonc strips them before the same YAML parser
// reads the document, JSON being a subset of YAML.
//
// Directory paths expand ${environment} to the environment name and any
// other ${VAR} from the process environment. Relative paths are resolved
// against the directory containing the file.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/provider"
	"github.com/shinji-kodama/layerconf/internal/tree"
)

// Extensions lists the recognised variant file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".json", ".jsonc"}

// rawVariant is the on-disk layout of a variant file.
type rawVariant struct {
	Config      *tree.Tree        `yaml:"config"`
	Directories map[string]string `yaml:"directories"`
	Settings    map[string]any    `yaml:"settings"`
}

// Variant is a configuration variant loaded from a file. It implements
// provider.Config.
type Variant struct {
	path        string
	environment string
	config      *tree.Tree
	directories map[string]string
}

// Path returns the file the variant was loaded from.
func (v *Variant) Path() string {
	return v.path
}

// Environment returns the environment the variant was loaded for.
func (v *Variant) Environment() string {
	return v.environment
}

// Config returns the configuration tree.
func (v *Variant) Config() *tree.Tree {
	return v.config
}

// Directories returns the declared directories with resolved paths.
func (v *Variant) Directories() map[string]string {
	return v.directories
}

// SettingsVariant is a Variant whose file has a settings section. It
// additionally implements settings.FrameworkSettings.
type SettingsVariant struct {
	*Variant
	settings map[string]any
}

// FrameworkSettings returns the settings section.
func (v *SettingsVariant) FrameworkSettings() map[string]any {
	return v.settings
}

// Dir is a provider.Provider backed by a directory of variant files.
type Dir struct {
	path string
}

// NewDir creates a Dir reading variants from path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory variants are read from.
func (d *Dir) Path() string {
	return d.path
}

// Get loads the variant for environment. An environment without a file
// yields an error wrapping provider.ErrUnknownEnvironment.
func (d *Dir) Get(environment string) (provider.Config, error) {
	if err := model.ValidateEnvironment(environment); err != nil {
		return nil, err
	}

	path, err := d.Find(environment)
	if err != nil {
		return nil, err
	}
	return LoadFile(path, environment)
}

// Find returns the variant file for environment, trying each of
// Extensions in order.
func (d *Dir) Find(environment string) (string, error) {
	candidates := make([]string, 0, len(Extensions))
	for _, ext := range Extensions {
		path := filepath.Join(d.path, environment+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		candidates = append(candidates, filepath.Base(path))
	}

	err := fmt.Errorf("%w %q: none of %s found in %s",
		provider.ErrUnknownEnvironment, environment, strings.Join(candidates, ", "), d.path)
	if envs, listErr := d.Environments(); listErr == nil {
		err = fmt.Errorf("%w (available: %s)", err, strings.Join(envs, ", "))
	}
	return "", err
}

// Environments lists the environments that have a variant file, sorted.
func (d *Dir) Environments() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration directory: %w", err)
	}

	seen := make(map[string]bool)
	var envs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isVariantExt(ext) {
			continue
		}
		env := strings.TrimSuffix(entry.Name(), ext)
		if model.ValidateEnvironment(env) != nil || seen[env] {
			continue
		}
		seen[env] = true
		envs = append(envs, env)
	}
	sort.Strings(envs)
	return envs, nil
}

// LoadFile reads and parses a single variant file.
func LoadFile(path, environment string) (provider.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	ext := filepath.Ext(path)
	if ext == ".json" || ext == ".jsonc" {
		// Strip comments and trailing commas; the result is plain JSON.
		data = jsonc.ToJSON(data)
	}

	return Parse(bytes.NewReader(data), path, environment)
}

// Parse decodes a variant document. path is used to resolve relative
// directory paths and in error messages.
func Parse(r io.Reader, path, environment string) (provider.Config, error) {
	var raw rawVariant

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}

	if errs := Validate(&raw); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration file %s: %w", path, errors.Join(toErrors(errs)...))
	}

	variant := &Variant{
		path:        path,
		environment: environment,
		config:      raw.Config,
		directories: resolveDirectories(raw.Directories, filepath.Dir(path), environment),
	}
	if variant.config == nil {
		variant.config = tree.New()
	}

	if raw.Settings != nil {
		return &SettingsVariant{Variant: variant, settings: raw.Settings}, nil
	}
	return variant, nil
}

// resolveDirectories expands variables in every path and makes relative
// paths absolute against baseDir.
func resolveDirectories(dirs map[string]string, baseDir, environment string) map[string]string {
	out := make(map[string]string, len(dirs))
	for name, path := range dirs {
		expanded := os.Expand(path, func(key string) string {
			if key == "environment" {
				return environment
			}
			return os.Getenv(key)
		})
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(baseDir, expanded)
		}
		if abs, err := filepath.Abs(expanded); err == nil {
			expanded = abs
		}
		out[name] = filepath.Clean(expanded)
	}
	return out
}

func isVariantExt(ext string) bool {
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
