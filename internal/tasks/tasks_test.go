package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "1", Queue: QueueNotifications}, nil
}

func TestNotificationTaskRoundTrip(t *testing.T) {
	in := Notification{Event: TypeApplicationSubmitted, Recipient: "alice", ApplicationID: 7, JobID: 3, JobTitle: "Go Engineer", Applicant: "bob", Status: "PENDING"}
	task, err := NewNotificationTask(in)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TypeApplicationSubmitted {
		t.Fatalf("unexpected type %s", task.Type())
	}
	out, err := ParseNotification(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestNotificationTaskRejects(t *testing.T) {
	if _, err := NewNotificationTask(Notification{Event: "pdf:generate", Recipient: "alice"}); err == nil {
		t.Fatal("expected unknown event to be rejected")
	}
	if _, err := ParseNotification(asynq.NewTask(TypeApplicationSubmitted, []byte("{"))); err == nil {
		t.Fatal("expected malformed payload to be rejected")
	}
	if _, err := ParseNotification(asynq.NewTask(TypeApplicationSubmitted, []byte(`{"event":"x"}`))); err == nil {
		t.Fatal("expected missing recipient to be rejected")
	}
}

func TestNotifierEnqueues(t *testing.T) {
	fake := &fakeEnqueuer{}
	n := &Notifier{client: fake}

	err := n.Notify(context.Background(), Notification{Event: TypeApplicationStatusChanged, Recipient: "bob", Status: "ACCEPTED"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fake.tasks) != 1 || fake.tasks[0].Type() != TypeApplicationStatusChanged {
		t.Fatalf("unexpected tasks %+v", fake.tasks)
	}

	fake.err = errors.New("redis down")
	if err := n.Notify(context.Background(), Notification{Event: TypeApplicationSubmitted, Recipient: "alice"}); !errors.Is(err, fake.err) {
		t.Fatalf("expected wrapped enqueue error, got %v", err)
	}
}

func TestNotifierCarriesCorrelationID(t *testing.T) {
	fake := &fakeEnqueuer{}
	n := &Notifier{client: fake}

	ctx := WithCorrelationID(context.Background(), "req-42")
	if err := n.Notify(ctx, Notification{Event: TypeApplicationSubmitted, Recipient: "alice"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := n.Notify(ctx, Notification{Event: TypeApplicationSubmitted, Recipient: "alice", CorrelationID: "explicit"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(fake.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(fake.tasks))
	}
	for i, want := range []string{"req-42", "explicit"} {
		got, err := ParseNotification(fake.tasks[i])
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got.CorrelationID != want {
			t.Fatalf("task %d: expected correlation id %q, got %q", i, want, got.CorrelationID)
		}
	}
}
