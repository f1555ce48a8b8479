// Package log wraps log/slog with component scoped loggers, shared field
// names and helpers for the events the service emits: HTTP requests,
// record changes and month syncs.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger tagged with a component name.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

// Config holds logger configuration. Handler wins over Level, JSON and
// Output when set.
type Config struct {
	Level     slog.Leveler
	JSON      bool
	Output    io.Writer
	Component string
	Handler   slog.Handler
}

// New creates a logger. An empty Component leaves the component field off.
func New(cfg Config) *Logger {
	h := cfg.Handler
	if h == nil {
		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}
		opts := &slog.HandlerOptions{Level: cfg.Level}
		if cfg.JSON {
			h = slog.NewJSONHandler(out, opts)
		} else {
			h = slog.NewTextHandler(out, opts)
		}
	}
	return scoped(slog.New(h), cfg.Component)
}

// ForComponent derives a component logger from the process default handler.
func ForComponent(component string) *Logger {
	return scoped(slog.Default(), component)
}

func scoped(base *slog.Logger, component string) *Logger {
	l := base
	if component != "" {
		l = base.With(FieldComponent, component)
	}
	return &Logger{Logger: l, base: base, component: component}
}

// With returns a logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// WithComponent swaps the component name, keeping other attributes.
func (l *Logger) WithComponent(component string) *Logger {
	return scoped(l.base, component)
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs l as the slog default without its component tag, so
// loggers derived from the default do not repeat it.
func SetDefault(l *Logger) {
	slog.SetDefault(l.base)
}

// ParseLevel maps LOG_LEVEL style names onto slog levels. Unknown names
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
