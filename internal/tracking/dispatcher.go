package tracking

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"

	appevents "webexpress_backend/internal/events"
	"webexpress_backend/platform/logger"
)

var errOutboxFull = errors.New("outbox full, oldest event evicted")

// trackedEvents are the funnel events forwarded to the ad platforms.
var trackedEvents = []string{
	"funnel.quote.started",
	"funnel.plan.selected",
	"funnel.timeline.selected",
	"funnel.addon.changed",
	"funnel.step.changed",
	"funnel.quote.completed",
	"funnel.quote.abandoned",
}

// Dispatcher bridges domain events to delivery: every tracked event is
// journaled to quote_events and enqueued for the worker. When the broker is
// down, payloads buffer in the bounded outbox and are flushed opportunistically
// on the next successful enqueue.
type Dispatcher struct {
	repo   *Repository
	client *asynq.Client
	outbox *Outbox
	queue  string
	log    *logger.Logger
}

// NewDispatcher creates a dispatcher. Tasks go to the named queue, which the
// worker process must also consume.
func NewDispatcher(repo *Repository, client *asynq.Client, outbox *Outbox, queue string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{repo: repo, client: client, outbox: outbox, queue: queue, log: log}
}

// Register subscribes the dispatcher to every tracked event.
func (d *Dispatcher) Register(bus appevents.Bus) {
	handler := appevents.HandlerFunc(d.handle)
	for _, name := range trackedEvents {
		bus.Subscribe(name, handler)
	}
}

func (d *Dispatcher) handle(ctx context.Context, event appevents.Event) error {
	payload, ok := toPayload(event)
	if !ok {
		return nil
	}

	// The journal write is the authoritative record; enqueue failures only
	// cost ad attribution.
	if err := d.repo.Append(ctx, payload); err != nil {
		d.log.Error("quote event journal write failed", "event", payload.EventName, "error", err)
	}

	if d.enqueue(payload) {
		d.flushOutbox()
	}
	return nil
}

// enqueue pushes one payload to the broker, falling back to the outbox.
// Returns true on success.
func (d *Dispatcher) enqueue(payload Payload) bool {
	task, err := NewDeliverTask(payload)
	if err != nil {
		d.log.Error("tracking task build failed", "event", payload.EventName, "error", err)
		return false
	}

	if _, err := d.client.Enqueue(task, asynq.Queue(d.queue)); err != nil {
		if evicted := d.outbox.Add(payload); evicted {
			d.log.TrackingDropped(payload.EventName, payload.SessionID, errOutboxFull)
		}
		d.log.Warn("tracking enqueue failed, buffered",
			"event", payload.EventName,
			"buffered", d.outbox.Len(),
			"error", err)
		return false
	}
	return true
}

// flushOutbox retries buffered payloads while the broker stays reachable.
func (d *Dispatcher) flushOutbox() {
	for {
		batch := d.outbox.Drain(16)
		if len(batch) == 0 {
			return
		}

		for i, payload := range batch {
			task, err := NewDeliverTask(payload)
			if err != nil {
				d.log.Error("tracking task build failed", "event", payload.EventName, "error", err)
				continue
			}
			if _, err := d.client.Enqueue(task, asynq.Queue(d.queue)); err != nil {
				// Broker went away again; keep the rest for later.
				d.outbox.Requeue(batch[i:])
				return
			}
		}
	}
}

func toPayload(event appevents.Event) (Payload, bool) {
	base := func(fc appevents.FunnelContext) Payload {
		return Payload{
			EventName:   event.EventName(),
			SessionID:   fc.SessionID,
			Fingerprint: fc.Fingerprint,
			Step:        fc.Step,
			PlanID:      fc.PlanID,
			TimelineID:  fc.TimelineID,
			OccurredAt:  event.OccurredAt(),
		}
	}

	switch e := event.(type) {
	case appevents.QuoteStarted:
		return base(e.FunnelContext), true
	case appevents.PlanSelected:
		return base(e.FunnelContext), true
	case appevents.TimelineSelected:
		return base(e.FunnelContext), true
	case appevents.AddonChanged:
		return base(e.FunnelContext), true
	case appevents.StepChanged:
		return base(e.FunnelContext), true
	case appevents.QuoteAbandoned:
		return base(e.FunnelContext), true
	case appevents.QuoteCompleted:
		p := base(e.FunnelContext)
		p.Value = e.InitialTotal
		p.Currency = "MXN"
		return p, true
	default:
		return Payload{}, false
	}
}
