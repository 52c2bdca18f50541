package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the structured logging key for the per-invocation run identifier.
	FieldRunID = "run_id"
	// FieldPair is the structured logging key for the 1-based pair index.
	FieldPair = "pair"
	// FieldStage is the structured logging key for the pair pipeline stage.
	FieldStage = "stage"
	// FieldEventType classifies a log line for filtering (pair_failed, count_mismatch, ...).
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for the operator on WARN and ERROR lines.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	runIDKey contextKey = iota
	pairKey
)

// WithRunID stores the run identifier on the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithPairIndex stores the 1-based pair index on the context.
func WithPairIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, pairKey, index)
}

// PairIndexFromContext returns the pair index stored by WithPairIndex.
func PairIndexFromContext(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	idx, ok := ctx.Value(pairKey).(int)
	return idx, ok && idx > 0
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if idx, ok := PairIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldPair, idx))
	}
	return fields
}
