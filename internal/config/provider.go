// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// BaseDir is the workspace root searched for modgraph.cue. Defaults to ".".
	BaseDir string
	// ConfigDirPath overrides the user config directory lookup when set.
	ConfigDirPath string
}

// Provider supplies the configuration for one command invocation. The
// returned path names the file the configuration came from, or is empty
// when only defaults and the environment applied.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, string, error)
}

// fileProvider reads modgraph.cue and the user config file.
type fileProvider struct {
	configDir string
}

// NewProvider returns the Provider backed by CUE files on disk. A non-empty
// configDir replaces the per-user config directory for every load that does
// not set LoadOptions.ConfigDirPath itself.
func NewProvider(configDir string) Provider {
	return &fileProvider{configDir: configDir}
}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if opts.ConfigDirPath == "" {
		opts.ConfigDirPath = p.configDir
	}
	return Load(ctx, opts)
}
