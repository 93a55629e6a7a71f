// Package agent defines the uniform contract every agent implements and the
// in-process registry that maps agent names to instances.
package agent

import (
	"context"

	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// Agent is the single contract every agent implements, regardless of how
// radically its behavior differs from the next. Dispatch is by name lookup
// against a Registry; no inheritance hierarchy is needed.
type Agent interface {
	// Run executes the agent for a single task. It must always return an
	// AgentRun — implementations should never panic; the Registry recovers
	// any panic into a failure AgentRun as a last resort, but well-behaved
	// agents report failure via the returned AgentRun themselves.
	Run(ctx context.Context, req RunRequest) *models.AgentRun
}

// RunRequest bundles everything an Agent.Run needs: the task's input
// payload, the shared conversation context, a handle to persistent memory,
// a handle to the LLM provider, and the conversation's current emotional
// state (read-only — the emotional engine, not the agent, owns mutation).
type RunRequest struct {
	AgentName      string
	InputPayload   models.JSON
	Context        *models.ConversationContext
	Memory         store.Store
	LLM            llmprovider.Provider
	EmotionalState models.EmotionalState
}
