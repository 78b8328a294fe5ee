package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeApplicationSubmitted     = "application:submitted"
	TypeApplicationStatusChanged = "application:status_changed"
)

// QueueNotifications 是通知任务使用的队列。
const QueueNotifications = "notifications"

// Notification 描述推送给某个用户的一条申请事件。
// 字段名与前端 WebSocket 解析保持一致。
type Notification struct {
	Event         string `json:"event"`
	Recipient     string `json:"recipient"`
	ApplicationID uint   `json:"application_id"`
	JobID         uint   `json:"job_id"`
	JobTitle      string `json:"job_title"`
	Applicant     string `json:"applicant"`
	Status        string `json:"status"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewNotificationTask 构造一个通知任务，任务类型取自 n.Event。
func NewNotificationTask(n Notification) (*asynq.Task, error) {
	switch n.Event {
	case TypeApplicationSubmitted, TypeApplicationStatusChanged:
	default:
		return nil, fmt.Errorf("unknown notification event %q", n.Event)
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(n.Event, payload), nil
}

// ParseNotification 解析任务负载。
func ParseNotification(t *asynq.Task) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	if n.Recipient == "" {
		return Notification{}, fmt.Errorf("decode notification: missing recipient")
	}
	return n, nil
}
