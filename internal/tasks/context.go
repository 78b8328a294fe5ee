package tasks

import "context"

type correlationIDKey struct{}

// WithCorrelationID 把请求的 Correlation ID 带入 ctx，入队时写进任务负载。
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFrom 返回 ctx 中的 Correlation ID，没有时为空串。
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
