package tracking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"webexpress_backend/internal/tracking"
	"webexpress_backend/internal/tracking/sinks"
	"webexpress_backend/platform/logger"
)

// The concrete ad-platform sinks must satisfy the worker's interface.
var (
	_ tracking.Sink = (*sinks.Facebook)(nil)
	_ tracking.Sink = (*sinks.GA)(nil)
)

type stubSink struct {
	name      string
	err       error
	delivered []tracking.Payload
}

func (s *stubSink) Name() string { return s.name }

func (s *stubSink) Deliver(_ context.Context, p tracking.Payload) error {
	s.delivered = append(s.delivered, p)
	return s.err
}

func deliverTask(t *testing.T, p tracking.Payload) *asynq.Task {
	t.Helper()
	task, err := tracking.NewDeliverTask(p)
	if err != nil {
		t.Fatalf("NewDeliverTask() error = %v", err)
	}
	return task
}

func TestHandleDeliverFansOutToAllSinks(t *testing.T) {
	first := &stubSink{name: "first"}
	second := &stubSink{name: "second"}
	worker := tracking.NewWorker(logger.New("test"), first, second)

	payload := tracking.Payload{
		EventName:  "funnel.quote.completed",
		SessionID:  "sess-worker-1",
		Step:       4,
		Value:      8990,
		Currency:   "MXN",
		OccurredAt: time.Now(),
	}

	if err := worker.HandleDeliver(context.Background(), deliverTask(t, payload)); err != nil {
		t.Fatalf("HandleDeliver() error = %v", err)
	}
	for _, sink := range []*stubSink{first, second} {
		if len(sink.delivered) != 1 {
			t.Fatalf("sink %s delivered %d payloads, want 1", sink.name, len(sink.delivered))
		}
		if sink.delivered[0].SessionID != "sess-worker-1" {
			t.Fatalf("sink %s got session %q", sink.name, sink.delivered[0].SessionID)
		}
	}
}

func TestHandleDeliverFailingSinkFailsTask(t *testing.T) {
	sinkErr := errors.New("upstream 500")
	failing := &stubSink{name: "failing", err: sinkErr}
	healthy := &stubSink{name: "healthy"}
	worker := tracking.NewWorker(logger.New("test"), failing, healthy)

	err := worker.HandleDeliver(context.Background(), deliverTask(t, tracking.Payload{
		EventName: "funnel.step.changed",
		SessionID: "sess-worker-2",
	}))
	if !errors.Is(err, sinkErr) {
		t.Fatalf("HandleDeliver() error = %v, want %v", err, sinkErr)
	}
	// The healthy sink still received the payload before the task fails.
	if len(healthy.delivered) != 1 {
		t.Fatalf("healthy sink delivered %d payloads, want 1", len(healthy.delivered))
	}
}

func TestHandleDeliverDropsMalformedTask(t *testing.T) {
	sink := &stubSink{name: "only"}
	worker := tracking.NewWorker(logger.New("test"), sink)

	task := asynq.NewTask(tracking.TypeDeliver, []byte("{not json"))
	if err := worker.HandleDeliver(context.Background(), task); err != nil {
		t.Fatalf("malformed task must be dropped without retry, got %v", err)
	}
	if len(sink.delivered) != 0 {
		t.Fatalf("malformed task reached a sink: %d payloads", len(sink.delivered))
	}
}
