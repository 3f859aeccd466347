package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	sourceFileKey contextKey = "source_file"
	fileIndexKey  contextKey = "file_index"
)

// WithRunID annotates context with the conversion run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSourceFile annotates context with the audio file being converted.
func WithSourceFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceFileKey, path)
}

// SourceFileFromContext returns the audio file path if present.
func SourceFileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourceFileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFileIndex annotates context with the 1-based position of a file within a
// batch.
func WithFileIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, fileIndexKey, index)
}

// FileIndexFromContext returns the batch position if present.
func FileIndexFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(fileIndexKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	default:
		return 0, false
	}
}
