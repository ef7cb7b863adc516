package services

import "context"

type contextKey int

const (
	jobIDKey contextKey = iota
	stageKey
)

// WithJobID stores the conversion job identifier on the context.
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

// JobIDFromContext extracts the job identifier from the context.
func JobIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(jobIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithStage stores the pipeline stage name on the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext extracts the pipeline stage name from the context.
func StageFromContext(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(stageKey).(string)
	if !ok || stage == "" {
		return "", false
	}
	return stage, true
}
