// Package envinit builds the process-wide configuration handed to every
// toolchain invocation. The result is an immutable value created once at
// startup; nothing here mutates the harness's own environment.
package envinit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/flarebyte/surfacetask/internal/config"
)

// VerbosityVar controls the engine's log output (env_logger).
const (
	VerbosityVar     = "RUST_LOG"
	DefaultVerbosity = "trace"
)

// Env is a read-only set of variables overlaid on the inherited environment.
type Env struct {
	vars map[string]string
}

// Initialize layers, from lowest to highest precedence: the verbosity
// default, cfg.Env, then cfg.EnvFile resolved against root.
func Initialize(cfg config.Config, root string) (Env, error) {
	vars := map[string]string{VerbosityVar: DefaultVerbosity}
	for k, v := range cfg.Env {
		vars[k] = v
	}
	if cfg.EnvFile != "" {
		p := cfg.EnvFile
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		fromFile, err := godotenv.Read(p)
		if err != nil {
			return Env{}, fmt.Errorf("failed to read env file %s: %w", cfg.EnvFile, err)
		}
		for k, v := range fromFile {
			vars[k] = v
		}
	}
	return Env{vars: vars}, nil
}

// New returns an Env holding exactly vars. Intended for tests and callers
// that assemble the configuration themselves.
func New(vars map[string]string) Env {
	cp := make(map[string]string, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return Env{vars: cp}
}

func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

func (e Env) Len() int { return len(e.vars) }

// Pairs returns KEY=VALUE entries sorted by key.
func (e Env) Pairs() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}

// Overlay returns base with every variable of e set, replacing existing
// entries in place and appending new ones in key order.
func (e Env) Overlay(base []string) []string {
	out := make([]string, 0, len(base)+len(e.vars))
	seen := make(map[string]bool, len(e.vars))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			out = append(out, kv)
			continue
		}
		k := kv[:i]
		if v, ok := e.vars[k]; ok {
			if !seen[k] {
				out = append(out, k+"="+v)
				seen[k] = true
			}
			continue
		}
		out = append(out, kv)
	}
	for _, kv := range e.Pairs() {
		k := kv[:strings.IndexByte(kv, '=')]
		if !seen[k] {
			out = append(out, kv)
		}
	}
	return out
}
