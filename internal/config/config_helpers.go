package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func parseCUE(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}
	cfg := Default()
	if err := decodeString(v, "configVersion", &cfg.ConfigVersion); err != nil {
		return Config{}, err
	}
	fields := []struct {
		path string
		dst  any
	}{
		{"toolchain.program", &cfg.Toolchain.Program},
		{"toolchain.runArgs", &cfg.Toolchain.RunArgs},
		{"toolchain.testArgs", &cfg.Toolchain.TestArgs},
		{"toolchain.timeoutMs", &cfg.Toolchain.TimeoutMs},
		{"toolchain.termGraceMs", &cfg.Toolchain.TermGraceMs},
		{"sample", &cfg.Sample},
		{"env", &cfg.Env},
		{"envFile", &cfg.EnvFile},
		{"workDir", &cfg.WorkDir},
	}
	for _, f := range fields {
		if err := decodeOptional(v, f.path, f.dst); err != nil {
			return Config{}, err
		}
	}
	if cfg.Env == nil {
		cfg.Env = map[string]string{}
	}
	return cfg, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func decodeString(v cue.Value, name string, dst *string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if err := f.Decode(dst); err != nil {
		return fmt.Errorf("invalid value for %s: %v", name, err)
	}
	return nil
}

// decodeOptional decodes the field at path into dst when present. The
// expected CUE kind is derived from the destination type.
func decodeOptional(v cue.Value, path string, dst any) error {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() {
		return nil
	}
	want, label := expectedKind(dst)
	if f.Kind() != want {
		return fmt.Errorf("invalid type for field: %s (expected %s)", path, label)
	}
	if err := f.Decode(dst); err != nil {
		return fmt.Errorf("invalid value for %s: %v", path, err)
	}
	return nil
}

func expectedKind(dst any) (cue.Kind, string) {
	switch dst.(type) {
	case *string:
		return cue.StringKind, "string"
	case *int:
		return cue.IntKind, "int"
	case *[]string:
		return cue.ListKind, "list of strings"
	case *map[string]string:
		return cue.StructKind, "struct of strings"
	default:
		panic(fmt.Sprintf("config: unsupported destination %T", dst))
	}
}
