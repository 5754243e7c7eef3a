// Package dispatch resolves a command name and runs its handler exactly once.
package dispatch

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/flarebyte/surfacetask/internal/command"
)

// Dispatcher runs registry handlers bound to a fixed set of dependencies.
type Dispatcher struct {
	deps command.Deps
	log  log.FieldLogger
}

func New(deps command.Deps, logger log.FieldLogger) *Dispatcher {
	return &Dispatcher{deps: deps, log: logger}
}

// Dispatch treats argv[0] as the command name and hands argv[1:] to its
// handler unchanged. It returns nil when the handler succeeded; every other
// result implements ExitCode() int.
func (d *Dispatcher) Dispatch(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return UsageError{Valid: command.Names()}
	}
	name, rest := argv[0], argv[1:]
	entry, ok := command.Resolve(name)
	if !ok {
		return UnknownCommandError{Name: name, Valid: command.Names()}
	}

	fields := log.Fields{"command": entry.Name, "kind": entry.Kind.String(), "args": len(rest)}
	if !entry.ForwardsArgs && len(rest) > 0 {
		d.log.WithFields(fields).Warn("command takes no arguments, ignoring them")
	}
	d.log.WithFields(fields).Debug("dispatching")

	outcome := entry.Handler(d.deps)(ctx, rest)
	if outcome.Success() {
		d.log.WithFields(fields).Debug("command succeeded")
		return nil
	}
	d.log.WithFields(fields).WithField("code", outcome.Code).Debug("command failed")
	return HandlerFailure{Command: entry.Name, Outcome: outcome}
}
