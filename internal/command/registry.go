// Package command holds the closed set of commands the dispatcher can run and
// the handlers bound to them.
package command

import (
	"sort"
)

// Kind enumerates the handler variants.
type Kind int

const (
	FixedInputRun Kind = iota
	ForwardingRun
	TestRun
	kindCount
)

func (k Kind) String() string {
	switch k {
	case FixedInputRun:
		return "fixed-input-run"
	case ForwardingRun:
		return "forwarding-run"
	case TestRun:
		return "test-run"
	default:
		return "unknown"
	}
}

// Entry binds a command name to a handler kind.
type Entry struct {
	Name         string `json:"name" yaml:"name"`
	Kind         Kind   `json:"-" yaml:"-"`
	Summary      string `json:"summary" yaml:"summary"`
	ForwardsArgs bool   `json:"forwardsArgs" yaml:"forwardsArgs"`
}

// registry is indexed by Kind so each kind has exactly one entry.
var registry = [kindCount]Entry{
	FixedInputRun: {
		Name:    "testdata",
		Kind:    FixedInputRun,
		Summary: "Run the engine on the configured sample input",
	},
	ForwardingRun: {
		Name:         "compute",
		Kind:         ForwardingRun,
		Summary:      "Run the engine with the given arguments",
		ForwardsArgs: true,
	},
	TestRun: {
		Name:         "test",
		Kind:         TestRun,
		Summary:      "Run the test suite with the given arguments",
		ForwardsArgs: true,
	},
}

// Entries returns the registry in kind order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry[:])
	return out
}

// Names returns the registered names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

// Resolve looks up name. Matching is exact and case-sensitive.
func Resolve(name string) (Entry, bool) {
	if name == "" {
		return Entry{}, false
	}
	for _, e := range registry {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
