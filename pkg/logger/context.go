package logger

import (
	"context"

	"go.uber.org/zap"
)

type traceIDKey struct{}

// WithTraceID 将追踪 ID 写入 context，后台任务沿用请求的追踪 ID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID 从 context 读取追踪 ID
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// TraceField returns the trace id as a zap field, or zap.Skip() when ctx has none.
func TraceField(ctx context.Context) zap.Field {
	if id := TraceID(ctx); id != "" {
		return zap.String(FieldTraceID, id)
	}
	return zap.Skip()
}
