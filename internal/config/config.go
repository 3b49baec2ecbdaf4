// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "modgraph"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// WorkspaceFileName is the config file looked up in the workspace root.
	WorkspaceFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides: MODGRAPH_RESOLVE_ENGINE_ID.
	EnvPrefix = "MODGRAPH"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the modgraph configuration directory using
// platform-specific conventions: %APPDATA% on Windows,
// ~/Library/Application Support on macOS and $XDG_CONFIG_HOME (default
// ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration selected by opts and returns it along with
// the path of the file it came from ("" when only defaults and environment
// applied).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the field names against 'modgraph config show'").
				WithGuide(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Fix the listed fields in the config file").
			WithSuggestion(fmt.Sprintf("Check %s_* environment variables for stale overrides", EnvPrefix)).
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("workspace.root", d.Workspace.Root)
	v.SetDefault("workspace.patterns", d.Workspace.Patterns)
	v.SetDefault("workspace.metadata_file", d.Workspace.MetadataFile)
	v.SetDefault("workspace.parallelism", d.Workspace.Parallelism)
	v.SetDefault("resolve.namespace", d.Resolve.Namespace)
	v.SetDefault("resolve.engine_id", d.Resolve.EngineID)
	v.SetDefault("resolve.engine_namespace", d.Resolve.EngineNamespace)
	v.SetDefault("resolve.lenient_mapping", d.Resolve.LenientMapping)
	v.SetDefault("resolve.index_files", d.Resolve.IndexFiles)
	v.SetDefault("resolve.git_urls", d.Resolve.GitURLs)
	v.SetDefault("resolve.cache_size", d.Resolve.CacheSize)
	v.SetDefault("resolve.engine_versions", d.Resolve.EngineVersions)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.log_level", d.UI.LogLevel)
}

// locate picks the config file to load. An explicit path must exist; the
// implicit locations are optional.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'modgraph config show' to see the default configuration").
				WithGuide(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	if p := filepath.Join(baseDir, WorkspaceFileName); fileExists(p) {
		return p, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			// Without a home directory there is no user config; defaults apply.
			return "", nil //nolint:nilerr // user config is optional
		}
		cfgDir = dir
	}
	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// This does not use cueutil.ParseAndDecode: the result goes into a map for
// viper rather than a struct, and fields are optional so validation runs
// with Concrete(false).
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config file accepted by Load.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// modgraph configuration\n\n")

	sb.WriteString("workspace: {\n")
	fmt.Fprintf(&sb, "\troot: %q\n", cfg.Workspace.Root)
	writeList(&sb, "patterns", cfg.Workspace.Patterns)
	fmt.Fprintf(&sb, "\tmetadata_file: %q\n", cfg.Workspace.MetadataFile)
	fmt.Fprintf(&sb, "\tparallelism: %d\n", cfg.Workspace.Parallelism)
	sb.WriteString("}\n")

	sb.WriteString("\nresolve: {\n")
	fmt.Fprintf(&sb, "\tnamespace: %q\n", cfg.Resolve.Namespace)
	fmt.Fprintf(&sb, "\tengine_id: %q\n", cfg.Resolve.EngineID)
	fmt.Fprintf(&sb, "\tengine_namespace: %q\n", cfg.Resolve.EngineNamespace)
	fmt.Fprintf(&sb, "\tlenient_mapping: %v\n", cfg.Resolve.LenientMapping)
	writeList(&sb, "index_files", cfg.Resolve.IndexFiles)
	writeList(&sb, "git_urls", cfg.Resolve.GitURLs)
	fmt.Fprintf(&sb, "\tcache_size: %d\n", cfg.Resolve.CacheSize)
	writeList(&sb, "engine_versions", cfg.Resolve.EngineVersions)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tlog_level: %q\n", cfg.UI.LogLevel)
	sb.WriteString("}\n")

	return sb.String()
}

func writeList(sb *strings.Builder, key string, values []string) {
	if len(values) == 0 {
		fmt.Fprintf(sb, "\t%s: []\n", key)
		return
	}
	fmt.Fprintf(sb, "\t%s: [\n", key)
	for _, s := range values {
		fmt.Fprintf(sb, "\t\t%q,\n", s)
	}
	sb.WriteString("\t]\n")
}
