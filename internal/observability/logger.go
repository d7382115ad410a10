package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldTraceID is the field name for the trace id.
	LogFieldTraceID = "trace_id"
	// LogFieldGroupID is the field name for the group id.
	LogFieldGroupID = "group_id"
	// LogFieldActor is the field name for the acting member email.
	LogFieldActor = "actor"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
	// LogFieldAppointmentID is the field name for the appointment id.
	LogFieldAppointmentID = "appointment_id"
)

// RequestContext carries the identity of a single engine invocation for
// structured logging.
type RequestContext struct {
	TraceID   string
	GroupID   string
	Actor     string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a new request context with a generated trace ID.
func NewRequestContext(logger *slog.Logger, groupID, actor string) *RequestContext {
	return NewRequestContextWithID(logger, uuid.New().String(), groupID, actor)
}

// NewRequestContextWithID creates a new request context with a specific trace ID.
func NewRequestContextWithID(logger *slog.Logger, traceID, groupID, actor string) *RequestContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestContext{
		TraceID:   traceID,
		GroupID:   groupID,
		Actor:     actor,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// Info logs an info message.
func (r *RequestContext) Info(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, r.baseAttrsAppended(attrs...)...)
}

// Debug logs a debug message.
func (r *RequestContext) Debug(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, r.baseAttrsAppended(attrs...)...)
}

// Warn logs a warning message.
func (r *RequestContext) Warn(msg string, attrs ...slog.Attr) {
	r.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, r.baseAttrsAppended(attrs...)...)
}

// Error logs an error message with the error.
func (r *RequestContext) Error(msg string, err error, attrs ...slog.Attr) {
	allAttrs := append(attrs, slog.String("error", err.Error()))
	r.Logger.LogAttrs(context.Background(), slog.LevelError, msg, r.baseAttrsAppended(allAttrs...)...)
}

// DurationMs returns the elapsed time in milliseconds.
func (r *RequestContext) DurationMs() int64 {
	return time.Since(r.StartTime).Milliseconds()
}

func (r *RequestContext) baseAttrsAppended(attrs ...slog.Attr) []slog.Attr {
	base := []slog.Attr{
		slog.String(LogFieldTraceID, r.TraceID),
		slog.String(LogFieldGroupID, r.GroupID),
		slog.String(LogFieldActor, r.Actor),
	}
	return append(base, attrs...)
}

type ctxKey struct{}

// WithRequestContext adds the request context to the context.
func WithRequestContext(ctx context.Context, reqCtx *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqCtx)
}

// FromContext extracts the request context from the context.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	reqCtx, ok := ctx.Value(ctxKey{}).(*RequestContext)
	return reqCtx, ok
}

// LoggerFromContext returns the request-scoped logger, or the default logger
// when the context carries none.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if reqCtx, ok := FromContext(ctx); ok {
		return reqCtx.Logger.With(
			LogFieldTraceID, reqCtx.TraceID,
			LogFieldGroupID, reqCtx.GroupID,
		)
	}
	return slog.Default()
}

// TraceIDFromContext returns the trace id carried by ctx, if any.
func TraceIDFromContext(ctx context.Context) string {
	if reqCtx, ok := FromContext(ctx); ok {
		return reqCtx.TraceID
	}
	return ""
}
