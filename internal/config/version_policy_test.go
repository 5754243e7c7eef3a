package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_UnknownConfigVersion(t *testing.T) {
	d := t.TempDir()
	cfg := filepath.Join(d, "surfacetask.cue")
	content := "{\n  configVersion: \"2\"\n}\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	_, err := Load(cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "unsupported configVersion: \"2\" (supported: 1)"
	if err.Error() != want {
		t.Fatalf("unexpected error\nwant: %s\n got: %s", want, err.Error())
	}
}

func TestLoad_UnknownConfigVersionYAML(t *testing.T) {
	d := t.TempDir()
	cfg := filepath.Join(d, "surfacetask.yaml")
	if err := os.WriteFile(cfg, []byte("configVersion: \"0\"\n"), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	_, err := Load(cfg)
	if err == nil || err.Error() != "unsupported configVersion: \"0\" (supported: 1)" {
		t.Fatalf("unexpected error: %v", err)
	}
}
