// Package project parses the optional funxy-check.yaml project config: the
// set of search paths a ModuleLoader resolves require() paths against, and
// a per-path toggle for which annotation dialect that path's source uses.
// Nothing in package checker depends on this — it is consumed only by a
// host's module loader / orchestrator wiring, strictly outside the
// synchronous checking core.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nxgtri/funxycheck/internal/config"
	"github.com/nxgtri/funxycheck/internal/utils"
)

// Dialect selects how inline annotations in a source path are parsed. Most
// projects only ever use Standard; Permissive exists for incrementally
// adopting checking across a codebase that still has untyped modules.
type Dialect string

const (
	DialectStandard   Dialect = "standard"
	DialectPermissive Dialect = "permissive"
)

// Config is the top-level funxy-check.yaml configuration.
type Config struct {
	// SearchPaths lists directories a require() path is resolved against,
	// in order, the first match winning.
	SearchPaths []string `yaml:"search_paths"`

	// Paths lists per-path overrides (dialect, exclusion) keyed by a glob
	// pattern matched against a file's path relative to the config file.
	Paths []PathConfig `yaml:"paths,omitempty"`

	// DefaultDialect is used for any path with no matching PathConfig.
	DefaultDialect Dialect `yaml:"default_dialect,omitempty"`
}

// PathConfig overrides checking behavior for source files matching Glob.
type PathConfig struct {
	Glob    string  `yaml:"glob"`
	Dialect Dialect `yaml:"dialect,omitempty"`
	Skip    bool    `yaml:"skip,omitempty"`
}

// LoadConfig reads and parses a funxy-check.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses funxy-check.yaml content from bytes. path is used only
// for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for funxy-check.yaml (or .yml) starting from dir (or,
// if given a source file path instead of a directory, from that file's own
// directory) and walking up to parent directories, the way a .gitignore is
// located. Returns "" with a nil error if no config is found anywhere above
// dir.
func FindConfig(dir string) (string, error) {
	dir = utils.GetModuleDir(dir)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"funxy-check.yaml", "funxy-check.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if len(c.SearchPaths) == 0 {
		return fmt.Errorf("%s: no search_paths defined", path)
	}
	for i, p := range c.Paths {
		if p.Glob == "" {
			return fmt.Errorf("%s: paths[%d]: glob is required", path, i)
		}
		if p.Dialect != "" && p.Dialect != DialectStandard && p.Dialect != DialectPermissive {
			return fmt.Errorf("%s: paths[%d] (%s): unknown dialect %q", path, i, p.Glob, p.Dialect)
		}
	}
	if c.DefaultDialect != "" && c.DefaultDialect != DialectStandard && c.DefaultDialect != DialectPermissive {
		return fmt.Errorf("%s: default_dialect: unknown dialect %q", path, c.DefaultDialect)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.DefaultDialect == "" {
		c.DefaultDialect = DialectStandard
	}
}

// DialectFor resolves the dialect that applies to relPath, matching Paths
// entries in order and falling back to DefaultDialect if none match.
func (c *Config) DialectFor(relPath string) (Dialect, error) {
	for _, p := range c.Paths {
		ok, err := filepath.Match(p.Glob, relPath)
		if err != nil {
			return "", fmt.Errorf("invalid glob %q: %w", p.Glob, err)
		}
		if ok {
			if p.Dialect == "" {
				return c.DefaultDialect, nil
			}
			return p.Dialect, nil
		}
	}
	return c.DefaultDialect, nil
}

// IsSkipped reports whether relPath is excluded from checking entirely.
func (c *Config) IsSkipped(relPath string) bool {
	for _, p := range c.Paths {
		if ok, _ := filepath.Match(p.Glob, relPath); ok {
			return p.Skip
		}
	}
	return false
}

// ResolveRequire resolves a require() path against SearchPaths, trying every
// recognized source extension in turn and returning the first candidate
// that exists on disk. baseDir anchors a dot-relative path (e.g.
// "./helpers") the way the requiring file's own directory would; an
// already-absolute or bare module name (e.g. "geometry") passes through
// unchanged.
func (c *Config) ResolveRequire(baseDir, name string) (string, error) {
	name = utils.ResolveImportPath(baseDir, name)
	for _, sp := range c.SearchPaths {
		for _, ext := range config.SourceFileExtensions {
			candidate := filepath.Join(sp, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("require(%q): not found (tried extensions %v in %v)", name, config.SourceFileExtensions, c.SearchPaths)
}

// ModuleNameFor derives the bare module name a resolved require() path
// would be cached/displayed under, stripping its directory and recognized
// source extension.
func ModuleNameFor(resolvedPath string) string {
	return utils.ExtractModuleName(resolvedPath)
}
