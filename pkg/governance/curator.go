package governance

import (
	"context"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// Metric-driven auto-policy thresholds, applied only when no suggestion or
// security alert already decided an agent's fate this pass.
const (
	AutoPromoteSuccessRate = 0.85
	AutoDeprecateFailRate  = 0.45
)

// CuratorAgent wraps Curator.Reconcile as an agent.Agent so it is
// dispatchable from a plan like any other task.
type CuratorAgent struct{}

func (a *CuratorAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failureRun(req, started, errNoMemoryStore("curator_agent"))
	}

	c := &Curator{Store: req.Memory}
	transitions, err := c.Reconcile(ctx)
	if err != nil {
		return failureRun(req, started, err)
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{"transitions": transitionsToJSON(transitions)},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

// Transition records one applied lifecycle change.
type Transition struct {
	Agent  string
	From   models.LifecycleState
	To     models.LifecycleState
	Reason string
}

// Curator reconciles critic suggestions, diagnostics and security alerts
// against the current agent definitions and applies the resulting
// transitions. Every applied transition appends a genealogy_record memory
// item.
type Curator struct {
	Store store.Store
}

// Reconcile implements the priority order from the governance pipeline:
// security alerts (force deprecated) -> critic deprecate -> critic promote
// -> metric-driven auto-policy. Each definition is visited once; the first
// rule that applies wins.
func (c *Curator) Reconcile(ctx context.Context) ([]Transition, error) {
	defs, err := c.Store.ListAgentDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := c.Store.GetAgentMetricsFromDiagnostics(ctx)
	if err != nil {
		return nil, err
	}
	flagged, err := c.recentlyFlaggedAgents(ctx)
	if err != nil {
		return nil, err
	}
	suggestions, err := c.latestSuggestions(ctx)
	if err != nil {
		return nil, err
	}

	var transitions []Transition
	for _, def := range defs {
		from := def.LifecycleState
		to, reason, changed := c.decide(def, metrics[def.Name], flagged, suggestions)
		if !changed || to == from {
			continue
		}

		def.LifecycleState = to
		def.IsActive = to == models.LifecycleActive
		if err := c.Store.SaveAgentDefinition(ctx, def); err != nil {
			return transitions, err
		}
		if err := c.recordGenealogy(ctx, def, from, to, reason); err != nil {
			return transitions, err
		}
		transitions = append(transitions, Transition{Agent: def.Name, From: from, To: to, Reason: reason})
	}
	return transitions, nil
}

func (c *Curator) decide(def *models.AgentDefinition, m store.AgentMetrics, flagged map[string]bool, suggestions map[string]Suggestion) (models.LifecycleState, string, bool) {
	if flagged[def.Name] {
		return models.LifecycleDeprecated, "security alert on file", true
	}

	if s, ok := suggestions[def.Name]; ok {
		switch s.Suggestion {
		case "demote":
			return models.LifecycleDeprecated, s.Reason, true
		case "promote":
			return promote(def.LifecycleState), s.Reason, true
		}
	}

	if m.TotalRuns >= 5 {
		successRate := 1 - m.FailureRate
		switch {
		case successRate > AutoPromoteSuccessRate && (def.LifecycleState == models.LifecycleDraft || def.LifecycleState == models.LifecycleTest):
			return models.LifecycleActive, "metric-driven auto-promotion", true
		case m.FailureRate > AutoDeprecateFailRate && def.LifecycleState != models.LifecycleDeprecated:
			return models.LifecycleDeprecated, "metric-driven auto-deprecation", true
		}
	}

	return def.LifecycleState, "", false
}

// promote maps draft->test->active->active; deprecated->test, matching the
// spec's promotion table exactly.
func promote(from models.LifecycleState) models.LifecycleState {
	switch from {
	case models.LifecycleDraft:
		return models.LifecycleTest
	case models.LifecycleTest, models.LifecycleActive:
		return models.LifecycleActive
	case models.LifecycleDeprecated:
		return models.LifecycleTest
	default:
		return from
	}
}

// recentlyFlaggedAgents reads the most recent security_alert memory items
// and returns the set of agent names they named.
func (c *Curator) recentlyFlaggedAgents(ctx context.Context) (map[string]bool, error) {
	items, err := c.Store.FindItemsByKey(ctx, models.MemoryKeySecurityAlert, nil, 0)
	if err != nil {
		return nil, err
	}
	flagged := make(map[string]bool)
	for _, item := range items {
		if name, ok := item.Metadata["agent"].(string); ok {
			flagged[name] = true
		}
	}
	return flagged, nil
}

// latestSuggestions reads the most recent critic_suggestion memory item
// and indexes its suggestions by agent name; later entries for the same
// agent within that item win.
func (c *Curator) latestSuggestions(ctx context.Context) (map[string]Suggestion, error) {
	items, err := c.Store.FindItemsByKey(ctx, models.MemoryKeyCriticSuggestion, nil, 1)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Suggestion)
	if len(items) == 0 {
		return out, nil
	}

	raw, _ := items[0].Metadata["suggestions"].([]any)
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["agent"].(string)
		if name == "" {
			continue
		}
		suggestion, _ := m["suggestion"].(string)
		reason, _ := m["reason"].(string)
		out[name] = Suggestion{Agent: name, Suggestion: suggestion, Reason: reason}
	}
	return out, nil
}

func (c *Curator) recordGenealogy(ctx context.Context, def *models.AgentDefinition, from, to models.LifecycleState, reason string) error {
	_, err := c.Store.StoreItem(ctx, models.ScopeGlobal, models.TypeProcedural, models.MemoryKeyGenealogyRecord,
		string(from)+" -> "+string(to)+": "+reason,
		models.JSON{
			"agent":     def.Name,
			"parent":    def.ParentID,
			"version":   def.ID,
			"reason":    reason,
			"timestamp": time.Now().Format(time.RFC3339),
			"record_id": ids.New(),
		})
	return err
}

func transitionsToJSON(transitions []Transition) []models.JSON {
	out := make([]models.JSON, len(transitions))
	for i, t := range transitions {
		out[i] = models.JSON{"agent": t.Agent, "from": string(t.From), "to": string(t.To), "reason": t.Reason}
	}
	return out
}
