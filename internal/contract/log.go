package contract

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logMu  sync.RWMutex
	logger = newLogger(os.Stderr, zerolog.WarnLevel)
)

// newLogger creates a console logger on w. Stdout is reserved for results and
// for the MCP stdio transport, so logs always go elsewhere.
func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(output).With().Timestamp().Logger().Level(level)
}

// InitLogger reconfigures the package logger. It is safe to call more than once.
func InitLogger(level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logMu.Lock()
	defer logMu.Unlock()
	logger = newLogger(w, ParseLogLevel(level))
}

// Logger returns the package logger.
func Logger() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := logger
	return &l
}

// ParseLogLevel converts a level name into a zerolog level. Unknown names map to warn.
func ParseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
