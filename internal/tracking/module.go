// Package tracking journals funnel telemetry and ships it to the ad
// platforms through the task queue.
package tracking

import (
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	appevents "webexpress_backend/internal/events"
	"webexpress_backend/platform/config"
	"webexpress_backend/platform/logger"
)

// Module wires the dispatcher into the event bus on the API side. Delivery
// itself happens in the worker process.
type Module struct {
	dispatcher *Dispatcher
	outbox     *Outbox
}

// NewModule creates and initializes the tracking module.
func NewModule(pool *pgxpool.Pool, client *asynq.Client, bus appevents.Bus, cfg config.RedisConfig, log *logger.Logger) *Module {
	outbox := NewOutbox(0)
	dispatcher := NewDispatcher(NewRepository(pool), client, outbox, cfg.GetAsynqQueueName(), log)
	dispatcher.Register(bus)

	return &Module{dispatcher: dispatcher, outbox: outbox}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tracking"
}

// Outbox exposes the retry buffer, mainly for health reporting.
func (m *Module) Outbox() *Outbox {
	return m.outbox
}
