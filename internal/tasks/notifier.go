package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier enqueues notifications on the asynq notifications queue.
type Notifier struct {
	client enqueuer
}

// NewNotifier wraps an asynq client.
func NewNotifier(client *asynq.Client) *Notifier {
	return &Notifier{client: client}
}

// Notify enqueues n for delivery. An empty CorrelationID is taken from ctx.
func (n *Notifier) Notify(ctx context.Context, note Notification) error {
	if note.CorrelationID == "" {
		note.CorrelationID = CorrelationIDFrom(ctx)
	}
	task, err := NewNotificationTask(note)
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", note.Event, err)
	}
	return nil
}
