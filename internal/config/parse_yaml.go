package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type yamlToolchain struct {
	Program     *string   `yaml:"program"`
	RunArgs     *[]string `yaml:"runArgs"`
	TestArgs    *[]string `yaml:"testArgs"`
	TimeoutMs   *int      `yaml:"timeoutMs"`
	TermGraceMs *int      `yaml:"termGraceMs"`
}

type yamlConfig struct {
	ConfigVersion *string           `yaml:"configVersion"`
	Toolchain     *yamlToolchain    `yaml:"toolchain"`
	Sample        *string           `yaml:"sample"`
	Env           map[string]string `yaml:"env"`
	EnvFile       *string           `yaml:"envFile"`
	WorkDir       *string           `yaml:"workDir"`
}

func parseYAML(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw yamlConfig
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid config: %v", err)
	}
	if raw.ConfigVersion == nil {
		return Config{}, errors.New("missing required field: configVersion")
	}

	cfg := Default()
	cfg.ConfigVersion = *raw.ConfigVersion
	if t := raw.Toolchain; t != nil {
		setIf(&cfg.Toolchain.Program, t.Program)
		setIf(&cfg.Toolchain.RunArgs, t.RunArgs)
		setIf(&cfg.Toolchain.TestArgs, t.TestArgs)
		setIf(&cfg.Toolchain.TimeoutMs, t.TimeoutMs)
		setIf(&cfg.Toolchain.TermGraceMs, t.TermGraceMs)
	}
	setIf(&cfg.Sample, raw.Sample)
	setIf(&cfg.EnvFile, raw.EnvFile)
	setIf(&cfg.WorkDir, raw.WorkDir)
	for k, v := range raw.Env {
		cfg.Env[k] = v
	}
	return cfg, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
