package tracking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeDeliver is the asynq task type for ad-platform event delivery.
const TypeDeliver = "tracking:deliver"

// Payload is the normalized tracking event shipped to the ad platforms. One
// payload fans out to every configured sink.
type Payload struct {
	EventName   string     `json:"eventName"`
	SessionID   string     `json:"sessionId"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	Step        int        `json:"step,omitempty"`
	PlanID      *uuid.UUID `json:"planId,omitempty"`
	TimelineID  string     `json:"timelineId,omitempty"`
	Value       int64      `json:"value,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// NewDeliverTask wraps a payload as an asynq task. Retries are capped and the
// task expires: stale ad events are worthless.
func NewDeliverTask(p Payload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal tracking payload: %w", err)
	}
	return asynq.NewTask(TypeDeliver, data,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Retention(time.Hour),
	), nil
}

// ParseDeliverTask decodes a deliver task back into its payload.
func ParseDeliverTask(task *asynq.Task) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal tracking payload: %w", err)
	}
	return p, nil
}
