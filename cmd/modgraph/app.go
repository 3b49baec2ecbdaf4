// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/config"
	"github.com/modgraph/modgraph/internal/metrics"
	"github.com/modgraph/modgraph/internal/workspace"
	"github.com/modgraph/modgraph/pkg/resolve"
)

var errNoModules = errors.New("no modules found")

type (
	flags struct {
		verbose     bool
		configFile  string
		root        string
		logLevel    string
		metricsFile string
		lenient     bool
		dirs        []string
	}

	// app carries what every command needs once the root command has
	// loaded the configuration.
	app struct {
		flags    flags
		stdout   io.Writer
		stderr   io.Writer
		provider config.Provider
		cfg      *config.Config
		cfgPath  string
		logger   *log.Logger
	}
)

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, provider: config.NewProvider("")}
}

// init loads the configuration and applies flag overrides.
func (a *app) init(cmd *cobra.Command) error {
	a.stdout, a.stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, path, err := a.provider.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		BaseDir:        a.flags.root,
	})
	if err != nil {
		return a.fail(cmd, "load configuration", err)
	}
	a.cfg, a.cfgPath = cfg, path

	if a.flags.root != "" {
		cfg.Workspace.Root = a.flags.root
	}
	if a.flags.logLevel != "" {
		cfg.UI.LogLevel = a.flags.logLevel
	}
	if a.flags.lenient {
		cfg.Resolve.LenientMapping = true
	}
	a.flags.verbose = a.flags.verbose || cfg.UI.Verbose

	level, err := log.ParseLevel(cfg.UI.LogLevel)
	if err != nil {
		return a.fail(cmd, "configure logging", fmt.Errorf("--log-level: %w", err))
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: "modgraph",
		Level:  level,
	})
	a.logger.Debug("configuration loaded", "path", a.cfgPath)
	return nil
}

// backends builds the artifact backends named by the configuration. Every
// backend is fronted by a version cache.
func (a *app) backends() ([]resolve.Backend, error) {
	var out []resolve.Backend
	add := func(b resolve.Backend) error {
		cached, err := resolve.NewCached(b, a.cfg.Resolve.CacheSize)
		if err != nil {
			return err
		}
		out = append(out, cached)
		return nil
	}

	for _, path := range a.cfg.Resolve.IndexFiles {
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.cfg.Workspace.Root, path)
		}
		idx, err := resolve.LoadIndex(path)
		if err != nil {
			return nil, err
		}
		if err := add(idx); err != nil {
			return nil, err
		}
	}
	for _, tmpl := range a.cfg.Resolve.GitURLs {
		g, err := resolve.NewGitBackend(tmpl)
		if err != nil {
			return nil, err
		}
		if err := add(g); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// run executes one resolution pass. A cycle still returns the partial
// result alongside the error.
func (a *app) run(ctx context.Context) (*workspace.Result, error) {
	backends, err := a.backends()
	if err != nil {
		return nil, err
	}

	var rec *metrics.Recorder
	if a.flags.metricsFile != "" {
		rec = metrics.New()
	}

	res, err := workspace.Run(ctx, workspace.Options{
		Root:           a.cfg.Workspace.Root,
		Patterns:       a.cfg.Workspace.Patterns,
		Dirs:           a.flags.dirs,
		MetadataFile:   a.cfg.Workspace.MetadataFile,
		Parallelism:    a.cfg.Workspace.Parallelism,
		Mapper:         a.cfg.Mapper(),
		Backends:       backends,
		LenientMapping: a.cfg.Resolve.LenientMapping,
		EngineVersions: a.cfg.EngineVersionList(),
		Logger:         a.logger,
		Metrics:        rec,
	})

	if rec != nil {
		if werr := rec.WriteTextfile(a.flags.metricsFile); werr != nil {
			a.logger.Error("failed to write metrics", "path", a.flags.metricsFile, "err", werr)
		}
	}

	if err == nil && len(res.Modules) == 0 && len(res.Diagnostics) == 0 {
		return res, errNoModules
	}
	return res, err
}

// fail renders err for the operator and returns the exit error for cobra.
func (a *app) fail(cmd *cobra.Command, operation string, err error) error {
	a.renderError(operation, err)
	cmd.SilenceErrors = true
	return &ExitError{Code: ExitFailure}
}
