// Package logging configures the harness's own logger. It is independent of
// the toolchain verbosity carried in envinit.Env.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	EnvLevel     = "SURFACETASK_LOG_LEVEL"
	DefaultLevel = log.WarnLevel
)

// New returns a text logger writing to w. level falls back to the
// SURFACETASK_LOG_LEVEL variable and then DefaultLevel.
func New(w io.Writer, level string) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger.SetLevel(DefaultLevel)

	if strings.TrimSpace(level) == "" {
		level = os.Getenv(EnvLevel)
	}
	if strings.TrimSpace(level) == "" {
		return logger
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("invalid log level %s, defaulting to %s", level, DefaultLevel)
	}
	return logger
}
