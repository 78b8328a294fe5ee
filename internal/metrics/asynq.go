package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"jobportal/internal/tasks"
)

// 通知任务的处理结果标签。
const (
	outcomeDelivered = "delivered"
	outcomeRetry     = "retry"
	outcomeDropped   = "dropped"
)

var (
	notificationsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "tasks_handled_total",
			Help:      "通知任务处理次数，按事件与结果划分。",
		},
		[]string{"event", "outcome"},
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "task_duration_seconds",
			Help:      "单个通知任务的处理耗时。",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"event"},
	)

	notificationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "tasks_in_flight",
			Help:      "当前正在处理的通知任务数量。",
		},
	)
)

// NotificationMetricsMiddleware 记录通知任务的处理结果与耗时。
// 未知任务类型统一记为 "unknown"，避免标签基数失控。
func NotificationMetricsMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			event := eventLabel(task.Type())
			notificationsInFlight.Inc()
			defer notificationsInFlight.Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)
			notificationDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
			notificationsHandled.WithLabelValues(event, outcome(err)).Inc()
			return err
		})
	}
}

func eventLabel(taskType string) string {
	switch taskType {
	case tasks.TypeApplicationSubmitted, tasks.TypeApplicationStatusChanged:
		return taskType
	default:
		return "unknown"
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeDelivered
	case errors.Is(err, asynq.SkipRetry):
		return outcomeDropped
	default:
		return outcomeRetry
	}
}
