// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/resolve"
	"github.com/modgraph/modgraph/pkg/version"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field-level validation errors. It wraps
	// ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Workspace WorkspaceConfig `json:"workspace" mapstructure:"workspace"`
		Resolve   ResolveConfig   `json:"resolve" mapstructure:"resolve"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
	}

	// WorkspaceConfig controls module discovery.
	WorkspaceConfig struct {
		Root         string   `json:"root" mapstructure:"root"`
		Patterns     []string `json:"patterns" mapstructure:"patterns"`
		MetadataFile string   `json:"metadata_file" mapstructure:"metadata_file"`
		// Parallelism bounds concurrent metadata reads; 0 means one per CPU.
		Parallelism int `json:"parallelism" mapstructure:"parallelism"`
	}

	// ResolveConfig controls dependency mapping and artifact resolution.
	ResolveConfig struct {
		Namespace       string `json:"namespace" mapstructure:"namespace"`
		EngineID        string `json:"engine_id" mapstructure:"engine_id"`
		EngineNamespace string `json:"engine_namespace" mapstructure:"engine_namespace"`
		LenientMapping  bool   `json:"lenient_mapping" mapstructure:"lenient_mapping"`
		// IndexFiles are repository index files consulted in order.
		IndexFiles []string `json:"index_files" mapstructure:"index_files"`
		// GitURLs are clone URL templates whose tags are read as versions.
		GitURLs        []string `json:"git_urls" mapstructure:"git_urls"`
		CacheSize      int      `json:"cache_size" mapstructure:"cache_size"`
		EngineVersions []string `json:"engine_versions" mapstructure:"engine_versions"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		LogLevel    string      `json:"log_level" mapstructure:"log_level"`
	}
)

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = "  " + err.Error()
	}
	return fmt.Sprintf("invalid config: %d errors:\n%s", len(e.FieldErrors), strings.Join(msgs, "\n"))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate reports whether c is one of the known color schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Root:         ".",
			Patterns:     []string{"modules/*"},
			MetadataFile: modinfo.DefaultFileName,
		},
		Resolve: ResolveConfig{
			Namespace:       depmap.DefaultNamespace,
			EngineID:        depmap.DefaultEngineID,
			EngineNamespace: depmap.DefaultEngineNamespace,
			IndexFiles:      []string{},
			GitURLs:         []string{},
			CacheSize:       resolve.DefaultCacheSize,
			EngineVersions:  []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			LogLevel:    "info",
		},
	}
}

// Validate checks what the CUE schema cannot: glob syntax, version syntax,
// log level names and values that arrive through environment variables.
func (c *Config) Validate() error {
	var errs []error

	if c.Workspace.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("workspace.parallelism: must not be negative, got %d", c.Workspace.Parallelism))
	}
	if strings.ContainsAny(c.Workspace.MetadataFile, `/\`) || c.Workspace.MetadataFile == "" {
		errs = append(errs, fmt.Errorf("workspace.metadata_file: must be a plain file name, got %q", c.Workspace.MetadataFile))
	}
	for i, p := range c.Workspace.Patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("workspace.patterns[%d]: invalid glob %q", i, p))
		}
	}
	if c.Resolve.EngineID == "" {
		errs = append(errs, errors.New("resolve.engine_id: must not be empty"))
	}
	if c.Resolve.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("resolve.cache_size: must not be negative, got %d", c.Resolve.CacheSize))
	}
	for i, u := range c.Resolve.GitURLs {
		if !strings.Contains(u, "{name}") {
			errs = append(errs, fmt.Errorf("resolve.git_urls[%d]: %q has no {name} placeholder", i, u))
		}
	}
	for i, s := range c.Resolve.EngineVersions {
		if _, err := version.Parse(s); err != nil {
			errs = append(errs, fmt.Errorf("resolve.engine_versions[%d]: %w", i, err))
		}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("ui.log_level: %w", err))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// EngineVersionList parses Resolve.EngineVersions. Call Validate first.
func (c *Config) EngineVersionList() []version.Version {
	out := make([]version.Version, 0, len(c.Resolve.EngineVersions))
	for _, s := range c.Resolve.EngineVersions {
		if v, err := version.Parse(s); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Mapper returns the dependency mapper described by c.
func (c *Config) Mapper() depmap.Mapper {
	return depmap.Mapper{
		Namespace:       c.Resolve.Namespace,
		EngineID:        c.Resolve.EngineID,
		EngineNamespace: c.Resolve.EngineNamespace,
	}
}
