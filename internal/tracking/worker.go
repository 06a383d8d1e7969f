package tracking

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	"webexpress_backend/platform/logger"
)

// Sink ships a tracking payload to one ad platform. Implementations live in
// the sinks subpackage.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, p Payload) error
}

// Worker consumes deliver tasks and fans each payload out to every configured
// sink. A failing sink fails the task so asynq retries it; sinks that already
// succeeded tolerate redelivery through their platform-side dedup keys.
type Worker struct {
	sinks []Sink
	log   *logger.Logger
}

// NewWorker creates a worker delivering to the given sinks.
func NewWorker(log *logger.Logger, targets ...Sink) *Worker {
	return &Worker{sinks: targets, log: log}
}

// Register mounts the worker's handlers on an asynq mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeDeliver, w.HandleDeliver)
}

// HandleDeliver processes one deliver task.
func (w *Worker) HandleDeliver(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDeliverTask(task)
	if err != nil {
		// Malformed payloads never become deliverable; drop without retry.
		w.log.Error("tracking task unreadable", "error", err)
		return nil
	}

	var errs []error
	for _, sink := range w.sinks {
		if err := sink.Deliver(ctx, payload); err != nil {
			w.log.Warn("sink delivery failed",
				"sink", sink.Name(),
				"event", payload.EventName,
				"error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
