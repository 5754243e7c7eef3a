package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults for a project without a config file. They describe a cargo
// workspace whose binary takes KML paths as positional arguments.
const (
	DefaultProgram     = "cargo"
	DefaultSample      = "testdata/sample.kml"
	DefaultTermGraceMs = 2000
)

// FileNames are looked up, in order, at the workspace root.
var FileNames = []string{"surfacetask.cue", "surfacetask.yaml", "surfacetask.yml"}

// Config is the resolved project configuration.
type Config struct {
	ConfigVersion string
	Toolchain     Toolchain
	// Sample is the fixed input used by the testdata command.
	Sample string
	// Env holds process-wide variables handed to the toolchain.
	Env map[string]string
	// EnvFile is an optional dotenv file overlaid on Env.
	EnvFile string
	// WorkDir is joined onto the workspace root.
	WorkDir string
	// Source is the file the config was loaded from, empty for defaults.
	Source string
}

// Toolchain describes the external build/run/test program.
type Toolchain struct {
	Program  string
	RunArgs  []string
	TestArgs []string
	// TimeoutMs bounds a single invocation; 0 blocks until the process exits.
	TimeoutMs   int
	TermGraceMs int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Toolchain: Toolchain{
			Program:     DefaultProgram,
			RunArgs:     []string{"run", "--release", "--"},
			TestArgs:    []string{"test"},
			TimeoutMs:   0,
			TermGraceMs: DefaultTermGraceMs,
		},
		Sample: DefaultSample,
		Env:    map[string]string{},
	}
}

// Load reads a .cue, .yaml or .yml file and overlays it on Default.
func Load(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		cfg, err = parseCUE(path)
	case ".yaml", ".yml":
		cfg, err = parseYAML(path)
	default:
		return Config{}, errors.New("unsupported config format: expected .cue, .yaml or .yml")
	}
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	cfg.Source = path
	return cfg, nil
}

// Discover returns the first config file found in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// MaxDurationMs is the largest millisecond count a time.Duration can hold.
const MaxDurationMs = math.MaxInt64 / int(time.Millisecond)

func checkDurationMs(field string, ms int) error {
	if ms < 0 {
		return fmt.Errorf("invalid value for field: %s (must be >= 0)", field)
	}
	if ms > MaxDurationMs {
		return fmt.Errorf("invalid value for field: %s (must be <= %d)", field, MaxDurationMs)
	}
	return nil
}

// Validate checks the invariants shared by every config source.
func Validate(cfg Config) error {
	if err := checkConfigVersion(cfg.ConfigVersion); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Toolchain.Program) == "" {
		return errors.New("invalid value for field: toolchain.program (must not be empty)")
	}
	if err := checkDurationMs("toolchain.timeoutMs", cfg.Toolchain.TimeoutMs); err != nil {
		return err
	}
	if err := checkDurationMs("toolchain.termGraceMs", cfg.Toolchain.TermGraceMs); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Sample) == "" {
		return errors.New("invalid value for field: sample (must not be empty)")
	}
	for k := range cfg.Env {
		if k == "" || strings.ContainsAny(k, "= \t\n") {
			return fmt.Errorf("invalid env name: %q", k)
		}
	}
	return nil
}
