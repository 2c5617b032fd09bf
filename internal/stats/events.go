package stats

import (
	"encoding/json"
	"time"
)

const (
	TopicRecompute = "stats.recompute"

	EventRecomputeRequested = "StatsRecomputeRequested"
)

// Triggers carried in RecomputePayload, one per mutation that invalidates
// the dashboard.
const (
	TriggerOrderCreated   = "order.created"
	TriggerOrderUpdated   = "order.status_updated"
	TriggerOrderDeleted   = "order.deleted"
	TriggerProductCreated = "product.created"
	TriggerProductDeleted = "product.deleted"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

type RecomputePayload struct {
	Trigger  string `json:"trigger"`
	EntityID string `json:"entity_id,omitempty"`
}

// PartitionKey is constant: all recompute events land on one partition so
// the worker sees them in order.
func PartitionKey() []byte { return []byte(singletonID) }
