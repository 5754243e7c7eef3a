package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/flarebyte/surfacetask/internal/config"
	"github.com/flarebyte/surfacetask/internal/envinit"
	"github.com/flarebyte/surfacetask/internal/toolchain"
)

// Handler runs one external invocation and returns its outcome untranslated.
type Handler func(ctx context.Context, args []string) toolchain.Outcome

// Deps is everything a handler needs, built once at startup.
type Deps struct {
	Invoker   toolchain.Invoker
	Toolchain config.Toolchain
	Sample    string
	Dir       string
	Env       envinit.Env
	// BaseEnv is the inherited environment Env is overlaid on.
	BaseEnv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Handler returns the handler for e bound to d.
func (e Entry) Handler(d Deps) Handler {
	switch e.Kind {
	case FixedInputRun:
		return d.fixedInputRun
	case ForwardingRun:
		return d.forwardingRun
	case TestRun:
		return d.testRun
	}
	panic(fmt.Sprintf("command: no handler for kind %v", e.Kind))
}

func (d Deps) fixedInputRun(ctx context.Context, _ []string) toolchain.Outcome {
	return d.Invoker.Invoke(ctx, d.invocation(d.Toolchain.RunArgs, []string{d.Sample}))
}

func (d Deps) forwardingRun(ctx context.Context, args []string) toolchain.Outcome {
	return d.Invoker.Invoke(ctx, d.invocation(d.Toolchain.RunArgs, args))
}

func (d Deps) testRun(ctx context.Context, args []string) toolchain.Outcome {
	return d.Invoker.Invoke(ctx, d.invocation(d.Toolchain.TestArgs, args))
}

func (d Deps) invocation(prefix, args []string) toolchain.Invocation {
	all := make([]string, 0, len(prefix)+len(args))
	all = append(all, prefix...)
	all = append(all, args...)
	return toolchain.Invocation{
		Program:   d.Toolchain.Program,
		Args:      all,
		Dir:       d.Dir,
		Env:       d.Env.Overlay(d.BaseEnv),
		Timeout:   time.Duration(d.Toolchain.TimeoutMs) * time.Millisecond,
		TermGrace: time.Duration(d.Toolchain.TermGraceMs) * time.Millisecond,
		Stdin:     d.Stdin,
		Stdout:    d.Stdout,
		Stderr:    d.Stderr,
	}
}
