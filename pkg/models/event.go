package models

import "time"

// EventType is the type of a recorded orchestration event. The event log is
// append-only and is the system's source of truth for replay and
// diagnostics.
type EventType string

// Event types. Within a turn they are logged strictly in the order
// REQUEST_RECEIVED -> PLAN_CREATED -> (TASK_ASSIGNED -> AGENT_RUN_{COMPLETED,FAILED})*.
const (
	EventRequestReceived    EventType = "REQUEST_RECEIVED"
	EventPlanCreated        EventType = "PLAN_CREATED"
	EventTaskAssigned       EventType = "TASK_ASSIGNED"
	EventAgentRunCompleted  EventType = "AGENT_RUN_COMPLETED"
	EventAgentRunFailed     EventType = "AGENT_RUN_FAILED"
)

// Event is an append-only, immutable log entry.
type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       JSON      `json:"payload,omitempty"`
}
