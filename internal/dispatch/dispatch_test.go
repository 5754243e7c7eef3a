package dispatch

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/flarebyte/surfacetask/internal/command"
	"github.com/flarebyte/surfacetask/internal/config"
	"github.com/flarebyte/surfacetask/internal/envinit"
	"github.com/flarebyte/surfacetask/internal/testutil"
	"github.com/flarebyte/surfacetask/internal/toolchain"
)

func newDispatcher(rec *testutil.Recorder) (*Dispatcher, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.New()
	logger.SetOutput(&buf)
	logger.SetLevel(log.DebugLevel)
	deps := command.Deps{
		Invoker:   rec,
		Toolchain: config.Default().Toolchain,
		Sample:    config.DefaultSample,
		Dir:       "/work",
		Env:       envinit.New(map[string]string{envinit.VerbosityVar: envinit.DefaultVerbosity}),
	}
	return New(deps, logger), &buf
}

func TestDispatch_Compute(t *testing.T) {
	rec := &testutil.Recorder{}
	d, _ := newDispatcher(rec)
	if err := d.Dispatch(context.Background(), []string{"compute", "foo.kml"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(calls))
	}
	if want := []string{"run", "--release", "--", "foo.kml"}; !reflect.DeepEqual(calls[0].Args, want) {
		t.Fatalf("unexpected args: %q", calls[0].Args)
	}
}

func TestDispatch_Testdata(t *testing.T) {
	rec := &testutil.Recorder{Outcome: toolchain.Outcome{Code: 101}}
	d, _ := newDispatcher(rec)
	err := d.Dispatch(context.Background(), []string{"testdata"})
	if got := ExitStatus(err); got != 101 {
		t.Fatalf("want exit 101, got %d (%v)", got, err)
	}
	if want := []string{"run", "--release", "--", "testdata/sample.kml"}; !reflect.DeepEqual(rec.Calls()[0].Args, want) {
		t.Fatalf("unexpected args: %q", rec.Calls()[0].Args)
	}
}

func TestDispatch_TestForwardsFlags(t *testing.T) {
	rec := &testutil.Recorder{}
	d, _ := newDispatcher(rec)
	if err := d.Dispatch(context.Background(), []string{"test", "--filter", "parse"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"test", "--filter", "parse"}; !reflect.DeepEqual(rec.Calls()[0].Args, want) {
		t.Fatalf("unexpected args: %q", rec.Calls()[0].Args)
	}
}

func TestDispatch_MissingCommand(t *testing.T) {
	for _, argv := range [][]string{nil, {}} {
		rec := &testutil.Recorder{}
		d, _ := newDispatcher(rec)
		err := d.Dispatch(context.Background(), argv)
		var ue UsageError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UsageError, got %v", err)
		}
		if ExitStatus(err) != ExitUsage {
			t.Fatalf("unexpected exit status %d", ExitStatus(err))
		}
		if len(rec.Calls()) != 0 {
			t.Fatalf("handler invoked without a command")
		}
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	for _, name := range []string{"bogus", "", "Compute", "version"} {
		rec := &testutil.Recorder{}
		d, _ := newDispatcher(rec)
		err := d.Dispatch(context.Background(), []string{name, "x"})
		var uc UnknownCommandError
		if !errors.As(err, &uc) || uc.Name != name {
			t.Fatalf("%q: expected UnknownCommandError, got %v", name, err)
		}
		if ExitStatus(err) != ExitUnknownCommand {
			t.Fatalf("unexpected exit status %d", ExitStatus(err))
		}
		if len(rec.Calls()) != 0 {
			t.Fatalf("handler invoked for unknown command")
		}
	}
}

func TestDispatch_UnknownCommandMessage(t *testing.T) {
	d, _ := newDispatcher(&testutil.Recorder{})
	err := d.Dispatch(context.Background(), []string{"bogus"})
	want := `unknown command: "bogus" (expected one of: compute, test, testdata)`
	if err == nil || err.Error() != want {
		t.Fatalf("unexpected error\nwant: %s\n got: %v", want, err)
	}
}

func TestDispatch_ExactlyOneInvocationWithArgs(t *testing.T) {
	argLists := [][]string{
		nil,
		{"a"},
		{"--help"},
		{"b", "a", "c"},
		{"", " ", "--", "-x"},
	}
	for _, name := range []string{"compute", "test"} {
		entry, _ := command.Resolve(name)
		prefix := config.Default().Toolchain.RunArgs
		if entry.Kind == command.TestRun {
			prefix = config.Default().Toolchain.TestArgs
		}
		for _, args := range argLists {
			rec := &testutil.Recorder{}
			d, _ := newDispatcher(rec)
			if err := d.Dispatch(context.Background(), append([]string{name}, args...)); err != nil {
				t.Fatalf("%s %q: unexpected error %v", name, args, err)
			}
			calls := rec.Calls()
			if len(calls) != 1 {
				t.Fatalf("%s %q: expected one invocation, got %d", name, args, len(calls))
			}
			got := calls[0].Args[len(prefix):]
			if len(args) == 0 && len(got) == 0 {
				continue
			}
			if !reflect.DeepEqual(got, args) {
				t.Fatalf("%s: forwarded %q, want %q", name, got, args)
			}
		}
	}
}

func TestDispatch_FixedInputWarnsOnArgs(t *testing.T) {
	d, buf := newDispatcher(&testutil.Recorder{})
	if err := d.Dispatch(context.Background(), []string{"testdata", "extra.kml"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "command takes no arguments") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}

func TestDispatch_HandlerFailureMessage(t *testing.T) {
	rec := &testutil.Recorder{Outcome: toolchain.Outcome{Code: 101}}
	d, _ := newDispatcher(rec)
	err := d.Dispatch(context.Background(), []string{"test"})
	if err == nil || err.Error() != "test: toolchain exited with status 101" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExitStatus(t *testing.T) {
	if ExitStatus(nil) != 0 {
		t.Fatalf("nil must map to 0")
	}
	if ExitStatus(errors.New("plain")) != 1 {
		t.Fatalf("plain errors must map to 1")
	}
	cancelled := HandlerFailure{Command: "compute", Outcome: toolchain.Outcome{Err: context.Canceled}}
	if ExitStatus(cancelled) != 1 || !errors.Is(cancelled, context.Canceled) {
		t.Fatalf("unexpected cancelled mapping")
	}
}
