package root

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"

	"github.com/flarebyte/surfacetask/internal/app"
	"github.com/flarebyte/surfacetask/internal/dispatch"
)

func workspaceDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("git init: %v", err)
	}
	t.Setenv(app.EnvConfig, "")
	return dir
}

func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_DryRunCompute(t *testing.T) {
	dir := workspaceDir(t)
	out, err := execRoot(t, "-C", dir, "--dry-run", "compute", "foo.kml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "(cd "+dir+" && cargo run --release -- foo.kml)\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_FlagsAfterCommandPassThrough(t *testing.T) {
	dir := workspaceDir(t)
	out, err := execRoot(t, "-C", dir, "--dry-run", "test", "--filter", "parse", "--help", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(out, "cargo test --filter parse --help --dry-run)\n") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_DryRunTestdata(t *testing.T) {
	dir := workspaceDir(t)
	out, err := execRoot(t, "-C", dir, "--dry-run", "testdata")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sample := filepath.Join(dir, "testdata", "sample.kml")
	if out != "(cd "+dir+" && cargo run --release -- "+sample+")\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_ComputeRunsInDirectoryFlag(t *testing.T) {
	dir := workspaceDir(t)
	sub := filepath.Join(dir, "data")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	out, err := execRoot(t, "-C", sub, "--dry-run", "compute", "foo.kml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "(cd "+sub+" && cargo run --release -- foo.kml)\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_MissingCommand(t *testing.T) {
	dir := workspaceDir(t)
	_, err := execRoot(t, "-C", dir)
	var ue dispatch.UsageError
	if !errors.As(err, &ue) || dispatch.ExitStatus(err) != dispatch.ExitUsage {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	dir := workspaceDir(t)
	out, err := execRoot(t, "-C", dir, "--dry-run", "bogus")
	if dispatch.ExitStatus(err) != dispatch.ExitUnknownCommand {
		t.Fatalf("expected unknown command, got %v", err)
	}
	if out != "" {
		t.Fatalf("no invocation expected, got %q", out)
	}
}

func TestRoot_InitFailureBeforeDispatch(t *testing.T) {
	dir := workspaceDir(t)
	if err := os.WriteFile(filepath.Join(dir, "surfacetask.cue"), []byte("configVersion: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execRoot(t, "-C", dir, "--dry-run", "compute")
	if dispatch.ExitStatus(err) != app.ExitInitErr {
		t.Fatalf("expected init failure, got %v", err)
	}
	if out != "" {
		t.Fatalf("no invocation expected, got %q", out)
	}
}

func TestRoot_EnvCommand(t *testing.T) {
	dir := workspaceDir(t)
	out, err := execRoot(t, "-C", dir, "env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "RUST_LOG=trace\n" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRoot_CommandsListed(t *testing.T) {
	out, err := execRoot(t, "commands", "--format", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"testdata", "compute", "test"} {
		if !strings.Contains(out, name) {
			t.Fatalf("missing %s in %q", name, out)
		}
	}
}
