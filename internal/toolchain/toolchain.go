// Package toolchain runs the external build/run/test program and reports its
// outcome as a value.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Conventional shell statuses for outcomes that carry no exit code of their own.
const (
	CodeTimeout    = 124
	CodeNotStarted = 127
	codeSignalBase = 128
)

// Invocation is one external process call.
type Invocation struct {
	Program string
	Args    []string
	Dir     string
	// Env is the complete child environment.
	Env []string
	// Timeout of zero waits for the process indefinitely.
	Timeout   time.Duration
	TermGrace time.Duration

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandLine renders the invocation for logs and dry runs.
func (inv Invocation) CommandLine() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, quoteArg(inv.Program))
	for _, a := range inv.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

// Outcome is the result of an invocation. Code is the status the harness
// exits with.
type Outcome struct {
	Code     int
	Signaled bool
	TimedOut bool
	// Err is set when the process could not be started or waited on.
	Err error
}

func (o Outcome) Success() bool { return o.Code == 0 && o.Err == nil }

func (o Outcome) String() string {
	switch {
	case o.Err != nil && !o.Signaled:
		return o.Err.Error()
	case o.TimedOut:
		return "toolchain timed out"
	case o.Signaled:
		return fmt.Sprintf("toolchain killed by signal %d", o.Code-codeSignalBase)
	default:
		return fmt.Sprintf("toolchain exited with status %d", o.Code)
	}
}

// Invoker executes invocations. Runner is the real implementation.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) Outcome
}

// DryRun prints each invocation instead of running it.
type DryRun struct {
	W io.Writer
}

func (d DryRun) Invoke(_ context.Context, inv Invocation) Outcome {
	_, _ = fmt.Fprintf(d.W, "(cd %s && %s)\n", quoteArg(inv.Dir), inv.CommandLine())
	return Outcome{}
}

// quoteArg wraps s in single quotes when a POSIX shell would split or
// expand it.
func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
