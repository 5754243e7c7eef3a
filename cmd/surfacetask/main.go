package main

import (
	"os"
	"strings"

	"github.com/flarebyte/surfacetask/cmd/surfacetask/root"
	"github.com/flarebyte/surfacetask/internal/dispatch"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	err := root.Execute(args)
	if err == nil {
		return 0
	}
	// One line on stderr, no usage or stack traces; the toolchain has
	// already printed its own diagnostics.
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if msg == "" {
		msg = "error"
	}
	_, _ = os.Stderr.WriteString("surfacetask: " + msg + "\n")
	return dispatch.ExitStatus(err)
}
