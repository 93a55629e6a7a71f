package models

import "time"

// LifecycleState is an agent definition's governance status.
type LifecycleState string

// Lifecycle states. Promotion path draft -> test -> active -> deprecated is
// monotonic except under explicit governance demotion.
const (
	LifecycleDraft      LifecycleState = "draft"
	LifecycleTest       LifecycleState = "test"
	LifecycleActive     LifecycleState = "active"
	LifecycleDeprecated LifecycleState = "deprecated"
)

// AgentDefinition is a governed, versioned agent specification. IsActive
// implies LifecycleState == LifecycleActive.
type AgentDefinition struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Config         JSON           `json:"config"`
	IsActive       bool           `json:"is_active"`
	ParentID       string         `json:"parent_id,omitempty"`
	LifecycleState LifecycleState `json:"lifecycle_state"`
	CreatedAt      time.Time      `json:"created_at"`
}
