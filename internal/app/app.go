// Package app assembles the harness: config, workspace, process-wide
// environment, logger and dispatcher. Setup is the single place the
// environment is initialized.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/flarebyte/surfacetask/internal/command"
	"github.com/flarebyte/surfacetask/internal/config"
	"github.com/flarebyte/surfacetask/internal/dispatch"
	"github.com/flarebyte/surfacetask/internal/envinit"
	"github.com/flarebyte/surfacetask/internal/logging"
	"github.com/flarebyte/surfacetask/internal/toolchain"
	"github.com/flarebyte/surfacetask/internal/workspace"
)

const (
	EnvConfig   = "SURFACETASK_CONFIG"
	ExitInitErr = 4
)

// Options are the root command's flags plus the stdio to use.
type Options struct {
	ConfigPath string
	LogLevel   string
	DryRun     bool
	// Dir is the caller's directory: workspace discovery starts there and
	// the toolchain runs there. Empty means the working directory.
	Dir string
	// BaseEnv defaults to os.Environ().
	BaseEnv []string
	// Invoker defaults to toolchain.Runner (or DryRun when DryRun is set).
	Invoker toolchain.Invoker

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// App is the initialized harness.
type App struct {
	Config config.Config
	Root   string
	// WorkDir is where the toolchain runs.
	WorkDir string
	// Sample is the fixed input, absolute.
	Sample     string
	Env        envinit.Env
	Log        *log.Logger
	Dispatcher *dispatch.Dispatcher
}

// InitError aborts the process before any dispatch.
type InitError struct{ Err error }

func (e InitError) Error() string { return "initialization failed: " + e.Err.Error() }
func (e InitError) ExitCode() int { return ExitInitErr }
func (e InitError) Unwrap() error { return e.Err }

// Setup loads configuration and initializes the process-wide environment.
// Any failure is an InitError.
func Setup(opts Options) (*App, error) {
	opts = withDefaults(opts)
	logger := logging.New(opts.Stderr, opts.LogLevel)

	workDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, InitError{Err: err}
	}
	root, err := workspace.Root(workDir)
	if err != nil {
		return nil, InitError{Err: err}
	}
	logger.WithField("root", root).Debug("workspace resolved")

	cfg, err := loadConfig(opts.ConfigPath, root)
	if err != nil {
		return nil, InitError{Err: err}
	}
	source := cfg.Source
	if source == "" {
		source = "defaults"
	}
	logger.WithField("config", source).Debug("config loaded")

	env, err := envinit.Initialize(cfg, root)
	if err != nil {
		return nil, InitError{Err: err}
	}
	logger.WithField("vars", env.Len()).Debug("environment initialized")

	invoker := opts.Invoker
	if invoker == nil {
		if opts.DryRun {
			invoker = toolchain.DryRun{W: opts.Stdout}
		} else {
			invoker = toolchain.Runner{}
		}
	}
	sample := cfg.Sample
	if !filepath.IsAbs(sample) {
		sample = filepath.Join(workspace.Resolve(root, cfg.WorkDir), sample)
	}
	deps := command.Deps{
		Invoker:   loggingInvoker{next: invoker, log: logger},
		Toolchain: cfg.Toolchain,
		Sample:    sample,
		Dir:       workDir,
		Env:       env,
		BaseEnv:   opts.BaseEnv,
		Stdin:     opts.Stdin,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
	}
	return &App{
		Config:     cfg,
		Root:       root,
		WorkDir:    workDir,
		Sample:     sample,
		Env:        env,
		Log:        logger,
		Dispatcher: dispatch.New(deps, logger),
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.BaseEnv == nil {
		opts.BaseEnv = os.Environ()
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = os.Getenv(EnvConfig)
	}
	return opts
}

func loadConfig(path, root string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if found, ok := config.Discover(root); ok {
		return config.Load(found)
	}
	cfg := config.Default()
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("built-in defaults: %w", err)
	}
	return cfg, nil
}
