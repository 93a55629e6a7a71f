package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/emotion"
	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicateName indicates an attempt to register two agents under
	// the same name.
	ErrDuplicateName = errors.New("agent already registered")

	// ErrAgentNotFound indicates a run was requested for an unregistered
	// agent name.
	ErrAgentNotFound = errors.New("agent not found")
)

// Registry maps unique agent names to instances. It is safe for concurrent
// use; registration happens once at startup (or via Discover) and lookups
// happen on every dispatched task.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register adds agent under name. It fails on duplicate name.
func (r *Registry) Register(name string, a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	r.agents[name] = a
	return nil
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the currently registered agent names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for n := range r.agents {
		names = append(names, n)
	}
	return names
}

// Named pairs an agent instance with the name it should be registered
// under — the shape returned by a discovery hook.
type Named struct {
	Name  string
	Agent Agent
}

// Discover registers every agent produced by source into r, preserving the
// "one name -> one instance" invariant. In a statically-compiled setting
// this replaces a runtime directory/package scan: source is typically a
// build-time table such as pkg/agents.BuiltinAgents.
func (r *Registry) Discover(source func() []Named) error {
	for _, n := range source() {
		if err := r.Register(n.Name, n.Agent); err != nil {
			return err
		}
	}
	return nil
}

// Run looks up name in the registry and invokes it, recovering any panic
// into a failure AgentRun per the contract: exceptions are caught and
// materialized as status=failure with an error field and the default
// negative delta, never propagated to the caller.
func (r *Registry) Run(ctx context.Context, req RunRequest) (run *models.AgentRun) {
	started := time.Now()
	a, ok := r.Get(req.AgentName)
	if !ok {
		return failureRun(req.AgentName, req.InputPayload, started,
			fmt.Errorf("%w: %s", ErrAgentNotFound, req.AgentName))
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("agent panicked", "agent", req.AgentName, "recover", rec)
			run = failureRun(req.AgentName, req.InputPayload, started, fmt.Errorf("panic: %v", rec))
		}
	}()

	run = a.Run(ctx, req)
	if run == nil {
		run = failureRun(req.AgentName, req.InputPayload, started,
			fmt.Errorf("agent %s returned a nil run", req.AgentName))
	}
	return run
}

func failureRun(agentName string, input models.JSON, started time.Time, err error) *models.AgentRun {
	return &models.AgentRun{
		ID:            ids.New(),
		AgentName:     agentName,
		InputPayload:  input,
		OutputPayload: models.JSON{models.OutputKeyError: err.Error()},
		Status:        models.RunStatusFailure,
		EmotionDelta:  emotion.DefaultFailureDelta(),
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}
