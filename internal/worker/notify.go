package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobportal/internal/tasks"
)

// ChannelPrefix 是用户通知频道前缀，WebSocket 端订阅同名频道。
const ChannelPrefix = "user_notify:"

// Channel returns the pub/sub channel of username.
func Channel(username string) string {
	return ChannelPrefix + username
}

// Publisher is the part of the redis client the handler uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotificationHandler 消费申请通知任务，并通过 Redis Pub/Sub 转发给在线用户。
type NotificationHandler struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewNotificationHandler 创建任务处理器。
func NewNotificationHandler(publisher Publisher, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{publisher: publisher, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *NotificationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	n, err := tasks.ParseNotification(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.String("task_type", t.Type()), slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log := h.logger.With(
		slog.String("event", n.Event),
		slog.String("recipient", n.Recipient),
		slog.Uint64("application_id", uint64(n.ApplicationID)),
	)
	if n.CorrelationID != "" {
		log = log.With(slog.String("correlation_id", n.CorrelationID))
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	receivers, err := h.publisher.Publish(ctx, Channel(n.Recipient), data).Result()
	if err != nil {
		log.Error("publish notification failed", slog.Any("error", err))
		return err
	}
	log.Info("notification published", slog.Int64("receivers", receivers))
	return nil
}
