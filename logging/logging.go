// Package logging is the console logging facade the core consumes (§6):
// levels {fatal, error, warning, info, debug, trace} with a default sink.
// The core never implements logging itself, only calls through this facade,
// matching original_source/include/pq-async/log.h.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level mirrors the six levels the design calls for.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warning
	ErrorLevel
	Fatal
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Trace:
		return zerolog.TraceLevel
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warning:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case Fatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

var (
	mu      sync.RWMutex
	logger  = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	fatalFn = func() { os.Exit(1) }
)

// SetOutput redirects the default sink, used by tests to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel gates the facade to a minimum level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(l.zerolog())
}

// Logger returns the shared zerolog.Logger so call sites can build
// structured events (log.Error().Err(err).Str("sqlstate", ss).Msg(...)).
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &logger
}

// Event-level convenience wrappers matching the six facade levels.

func Tracef(format string, args ...interface{}) { Logger().Trace().Msgf(format, args...) }
func Debugf(format string, args ...interface{}) { Logger().Debug().Msgf(format, args...) }
func Infof(format string, args ...interface{})  { Logger().Info().Msgf(format, args...) }
func Warnf(format string, args ...interface{})  { Logger().Warn().Msgf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger().Error().Msgf(format, args...) }

// Fatalf logs at fatal level and terminates the process, the way a fatal
// log always does in this facade (§6: "A fatal log terminates the process").
func Fatalf(format string, args ...interface{}) {
	Logger().WithLevel(zerolog.FatalLevel).Msgf(format, args...)
	fatalFn()
}

// SetFatalHandler overrides the process-termination side effect of Fatalf,
// used only by tests so a fatal-path test doesn't kill the test binary.
func SetFatalHandler(fn func()) { fatalFn = fn }
