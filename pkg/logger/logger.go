// Package logger wraps zerolog behind a process-wide singleton. Call Init
// once in main, then hand the returned logger down or fetch it with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the singleton is built.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or error.
	// Unknown values fall back to info.
	Level string
	// Pretty switches to the human console writer. Production stays on JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance zerolog.Logger
	ready    bool
)

// Init builds the singleton. Repeated calls are ignored; the first
// configuration wins.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := levelFrom(opts.Level)
	zerolog.SetGlobalLevel(level)

	instance = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	ready = true
	return instance
}

// Get returns the singleton, initialising it with defaults when Init was
// never called. Library code should prefer an injected zerolog.Logger.
func Get() zerolog.Logger {
	mu.Lock()
	initialised := ready
	mu.Unlock()
	if !initialised {
		return Init(Options{})
	}
	return instance
}

// With returns the singleton tagged with a component name.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

func levelFrom(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
