package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the per-invocation correlation id.
	FieldRunID = "run_id"
	// FieldList is the standardized structured logging key for Trakt list names.
	FieldList = "list"
	// FieldPage is the standardized structured logging key for 1-based page numbers.
	FieldPage = "page"
	// FieldStatus is the standardized structured logging key for HTTP status codes.
	FieldStatus = "status"
)

type runIDKey struct{}

// WithRunID returns a context carrying a fresh correlation id for this invocation.
func WithRunID(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	return context.WithValue(ctx, runIDKey{}, id), id
}

// RunIDFromContext extracts the correlation id stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if id, ok := RunIDFromContext(ctx); ok {
		return []slog.Attr{slog.String(FieldRunID, id)}
	}
	return nil
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context. A logger that already carries the context's run id is
// returned unchanged, so layered components log the id once.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	id, ok := RunIDFromContext(ctx)
	if !ok {
		return logger
	}
	if tagged, isTagged := logger.Handler().(*runIDHandler); isTagged && tagged.runID == id {
		return logger
	}
	return slog.New(&runIDHandler{
		Handler: logger.Handler().WithAttrs(ContextFields(ctx)),
		runID:   id,
	})
}

// runIDHandler remembers which run id its attributes already include.
type runIDHandler struct {
	slog.Handler
	runID string
}

func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runIDHandler{Handler: h.Handler.WithAttrs(attrs), runID: h.runID}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{Handler: h.Handler.WithGroup(name), runID: h.runID}
}
