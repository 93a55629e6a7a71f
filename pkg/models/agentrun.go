package models

import "time"

// RunStatus is the terminal outcome of an agent run.
type RunStatus string

// Run statuses.
const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailure RunStatus = "failure"
)

// AgentRun is an immutable record of a single agent invocation.
type AgentRun struct {
	ID            string       `json:"id"`
	AgentName     string       `json:"agent_name"`
	InputPayload  JSON         `json:"input_payload"`
	OutputPayload JSON         `json:"output_payload"`
	Status        RunStatus    `json:"status"`
	EmotionDelta  EmotionDelta `json:"emotion_delta"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
}

// Conventional output_payload keys the orchestrator understands.
const (
	OutputKeyUserVisibleMessage = "user_visible_message"
	OutputKeyStopForUserInput   = "stop_for_user_input"
	OutputKeyError              = "error"
)
