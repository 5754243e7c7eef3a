package testutil

import (
	"context"
	"sync"

	"github.com/flarebyte/surfacetask/internal/toolchain"
)

// Recorder is a toolchain.Invoker that records invocations and returns a
// fixed outcome instead of starting a process.
type Recorder struct {
	Outcome toolchain.Outcome
	// OnInvoke, when set, runs at the moment the process would start.
	OnInvoke func(inv toolchain.Invocation)

	mu    sync.Mutex
	calls []toolchain.Invocation
}

func (r *Recorder) Invoke(_ context.Context, inv toolchain.Invocation) toolchain.Outcome {
	if r.OnInvoke != nil {
		r.OnInvoke(inv)
	}
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()
	return r.Outcome
}

// Calls returns a copy of the recorded invocations.
func (r *Recorder) Calls() []toolchain.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toolchain.Invocation(nil), r.calls...)
}
