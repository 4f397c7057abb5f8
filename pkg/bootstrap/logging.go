package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
}

func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	var component string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = a.Value.String()
			return false
		}
		return true
	})

	if component != "" {
		rewritten := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", component, r.Message), r.PC)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key != "component" {
				rewritten.AddAttrs(a)
			}
			return true
		})
		r = rewritten
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the wrapper so components bound with Logger.With still get prefixed.
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for _, a := range attrs {
		if a.Key == "component" {
			rest := make([]slog.Attr, 0, len(attrs)-1)
			for _, b := range attrs {
				if b.Key != "component" {
					rest = append(rest, b)
				}
			}
			return &prefixedHandler{Handler: h.Handler.WithAttrs(rest), component: a.Value.String()}
		}
	}
	return &ComponentHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{Handler: h.Handler.WithGroup(name)}
}

// prefixedHandler carries a component bound through Logger.With.
type prefixedHandler struct {
	slog.Handler
	component string
}

func (h *prefixedHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("[%s] %s", h.component, r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(a)
		return true
	})
	return h.Handler.Handle(ctx, rewritten)
}

func (h *prefixedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prefixedHandler{Handler: h.Handler.WithAttrs(attrs), component: h.component}
}

func (h *prefixedHandler) WithGroup(name string) slog.Handler {
	return &prefixedHandler{Handler: h.Handler.WithGroup(name), component: h.component}
}

// ParseLevel maps LOG_LEVEL values to slog levels; unknown means info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds the Cloud Logging compatible JSON handler.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	return &ComponentHandler{Handler: slog.NewJSONHandler(w, GetSlogHandlerOptions(level))}
}

// InitLogger configures the default logger from LOG_LEVEL.
func InitLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))))
}
