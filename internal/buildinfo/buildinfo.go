// Package buildinfo exposes version metadata for the CLI. Values are set at
// build time via -ldflags, fall back to the cli package, and finally to the
// VCS stamp the Go toolchain embeds in the binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/flarebyte/surfacetask/cli"
)

var (
	Version = ""
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

// Info is the resolved build metadata.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	BuiltBy string `json:"built_by"`
	Go      string `json:"go"`
	OS      string `json:"go_os"`
	Arch    string `json:"go_arch"`
}

// Current resolves Info from ldflags, cli and the embedded VCS settings.
func Current() Info {
	info := Info{
		Version: firstNonEmpty(Version, cli.Version, "dev"),
		Commit:  Commit,
		Date:    firstNonEmpty(Date, cli.Date),
		BuiltBy: BuiltBy,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = firstNonEmpty(info.Commit, s.Value)
			case "vcs.time":
				info.Date = firstNonEmpty(info.Date, s.Value)
			}
		}
	}
	return info
}

// Summary returns a concise single-line version string.
func Summary() string {
	return Current().summary()
}

func (i Info) summary() string {
	v := i.Version
	parts := make([]string, 0, 2)
	if i.Commit != "" {
		c := i.Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if i.Date != "" {
		parts = append(parts, "date="+i.Date)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
