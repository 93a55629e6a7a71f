package models

import "time"

// TaskStatus is a task's position in its lifecycle.
type TaskStatus string

// Task statuses. Transitions: pending -> running -> {done, error}; on error
// with retry_count < max_retries, error -> pending with retry_count++.
const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusError   TaskStatus = "error"
)

// Task is one scheduled invocation of an agent within a plan.
type Task struct {
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	AgentName    string         `json:"agent_name"`
	InputPayload JSON           `json:"input_payload"`
	Status       TaskStatus     `json:"status"`
	Result       JSON           `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
	DependsOn    []string       `json:"depends_on"`
	MaxRetries   int            `json:"max_retries"`
	RetryCount   int            `json:"retry_count"`
	CostEstimate float64        `json:"cost_estimate,omitempty"`
	Budget       float64        `json:"budget,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PlanSource identifies which planning strategy produced a plan.
type PlanSource string

// Plan sources. The planner tags governance-pipeline plans meta_router,
// meta-planner plans llm, and every other plan heuristic.
const (
	PlanSourceHeuristic  PlanSource = "heuristic"
	PlanSourceLLM        PlanSource = "llm"
	PlanSourceMetaRouter PlanSource = "meta_router"
)

// GovernanceMode selects the planning variant in effect for a plan.
type GovernanceMode string

// Governance modes.
const (
	GovernanceModeStandard     GovernanceMode = "standard"
	GovernanceModeSafeDefault  GovernanceMode = "safe_default"
	GovernanceModeAggressive   GovernanceMode = "aggressive"
)

// PlanMetadata carries provenance and routing information about a plan.
type PlanMetadata struct {
	Source            PlanSource     `json:"source"`
	RouterMode        string         `json:"router_mode,omitempty"`
	GovernanceMode     bool           `json:"governance_mode"`
	GovernanceModeKind GovernanceMode `json:"governance_mode_kind,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	GovernanceReason   string         `json:"governance_reason,omitempty"`
	GovernanceTargets  []string       `json:"governance_targets,omitempty"`
	Warning           string         `json:"warning,omitempty"`
}

// Plan is an ordered collection of tasks built fresh for a single turn.
// Unknown dependency ids (not present in Tasks) are ignored, never blocking.
type Plan struct {
	ID           string       `json:"id"`
	Tasks        []*Task      `json:"tasks"`
	CurrentIndex int          `json:"current_index"`
	Metadata     PlanMetadata `json:"metadata"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TaskByID returns the task with the given id, or nil.
func (p *Plan) TaskByID(id string) *Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// NextReadyTask returns the first pending task (in insertion order) whose
// every dependency is either unknown within the plan (ignored) or done.
// Tasks depending on an errored task are never selected — by design, there
// is no automatic skip-on-dependency-failure.
func (p *Plan) NextReadyTask() *Task {
	for _, t := range p.Tasks {
		if t.Status != TaskStatusPending {
			continue
		}
		if p.dependenciesSatisfied(t) {
			return t
		}
	}
	return nil
}

func (p *Plan) dependenciesSatisfied(t *Task) bool {
	for _, depID := range t.DependsOn {
		dep := p.TaskByID(depID)
		if dep == nil {
			continue // unknown dependency is ignored, never blocks
		}
		if dep.Status != TaskStatusDone {
			return false
		}
	}
	return true
}
