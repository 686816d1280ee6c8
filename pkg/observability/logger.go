package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
	attrCommand = "command"
)

type commandKey struct{}

// WithCommand returns a context whose log records carry the command name.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey{}, command)
}

// CommandFromContext returns the command name stored by WithCommand.
func CommandFromContext(ctx context.Context) string {
	command, _ := ctx.Value(commandKey{}).(string)

	return command
}

// NewLogger returns a text or JSON logger on cfg.LogWriter (stderr when nil),
// wrapped in a ContextHandler.
func NewLogger(cfg Config) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg.LogWriter != nil {
		out = cfg.LogWriter
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	inner := slog.Handler(slog.NewTextHandler(out, handlerOpts))
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, handlerOpts)
	}

	return slog.New(NewContextHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

// ContextHandler is an [slog.Handler] that adds the running command and the
// OpenTelemetry trace context (trace_id, span_id) to every record. Service
// metadata is attached once at construction so it stays at the top level
// even when groups are used.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner with service metadata and context injection.
func NewContextHandler(inner slog.Handler, service, env string, appMode AppMode) *ContextHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return &ContextHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds command and span attributes from ctx, then delegates.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if command := CommandFromContext(ctx); command != "" {
		record.AddAttrs(slog.String(attrCommand, command))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := h.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("context handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new ContextHandler with additional attributes on the inner handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler with a group prefix on the inner handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
