package app

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/flarebyte/surfacetask/internal/toolchain"
)

// loggingInvoker records each external call at debug level.
type loggingInvoker struct {
	next toolchain.Invoker
	log  log.FieldLogger
}

func (l loggingInvoker) Invoke(ctx context.Context, inv toolchain.Invocation) toolchain.Outcome {
	entry := l.log.WithFields(log.Fields{"dir": inv.Dir, "timeout": inv.Timeout.String()})
	entry.WithField("cmd", inv.CommandLine()).Debug("starting toolchain")
	out := l.next.Invoke(ctx, inv)
	entry.WithFields(log.Fields{"code": out.Code, "timed_out": out.TimedOut}).Debug("toolchain finished")
	return out
}
