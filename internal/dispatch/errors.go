package dispatch

import (
	"fmt"
	"strings"

	"github.com/flarebyte/surfacetask/internal/toolchain"
)

// Exit statuses owned by the dispatcher. Handler statuses pass through.
const (
	ExitUsage          = 2
	ExitUnknownCommand = 3
)

// UsageError is returned when no command name was given.
type UsageError struct {
	Valid []string
}

func (e UsageError) Error() string {
	return "missing command (expected one of: " + strings.Join(e.Valid, ", ") + ")"
}

func (e UsageError) ExitCode() int { return ExitUsage }

// UnknownCommandError is returned when the name has no registry entry.
type UnknownCommandError struct {
	Name  string
	Valid []string
}

func (e UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %q (expected one of: %s)", e.Name, strings.Join(e.Valid, ", "))
}

func (e UnknownCommandError) ExitCode() int { return ExitUnknownCommand }

// HandlerFailure carries a non-successful toolchain outcome to the process
// boundary. ExitCode is the outcome's code, unchanged.
type HandlerFailure struct {
	Command string
	Outcome toolchain.Outcome
}

func (e HandlerFailure) Error() string {
	return e.Command + ": " + e.Outcome.String()
}

func (e HandlerFailure) ExitCode() int {
	if e.Outcome.Code == 0 {
		// Err without a status, e.g. cancelled while waiting.
		return 1
	}
	return e.Outcome.Code
}

func (e HandlerFailure) Unwrap() error { return e.Outcome.Err }

// ExitStatus maps a Dispatch result to a process exit status.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		if c := ec.ExitCode(); c != 0 {
			return c
		}
	}
	return 1
}
