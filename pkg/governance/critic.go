package governance

import (
	"context"
	"strconv"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// Suggestion is a critic's conservative governance recommendation for one
// agent definition.
type Suggestion struct {
	Agent      string  `json:"agent"`
	Suggestion string  `json:"suggestion"` // "promote" | "demote" | "keep"
	Confidence float64 `json:"confidence"`
	Target     string  `json:"target,omitempty"`
	Reason     string  `json:"reason"`
}

// CriticAgent synthesizes per-agent quality assessments from recorded
// diagnostics. Deprecation is only ever suggested under strong negative
// signals; agents with no recent activity default to "keep".
type CriticAgent struct{}

func (a *CriticAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failureRun(req, started, errNoMemoryStore("critic_agent"))
	}

	metrics, err := req.Memory.GetAgentMetricsFromDiagnostics(ctx)
	if err != nil {
		return failureRun(req, started, err)
	}

	defs, err := req.Memory.ListAgentDefinitions(ctx)
	if err != nil {
		return failureRun(req, started, err)
	}

	suggestions := make([]Suggestion, 0, len(defs))
	for _, def := range defs {
		suggestions = append(suggestions, critiqueAgent(def.Name, metrics[def.Name]))
	}

	if _, err := req.Memory.StoreItem(ctx, models.ScopeGlobal, models.TypeProcedural, models.MemoryKeyCriticSuggestion,
		"critic pass over "+strconv.Itoa(len(suggestions))+" agent(s)", models.JSON{"suggestions": suggestionsToJSON(suggestions)}); err != nil {
		return failureRun(req, started, err)
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{"suggestions": suggestionsToJSON(suggestions)},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

// critiqueAgent applies the conservative rule table: deprecation needs
// strong negative signal; no-data agents default to keep.
func critiqueAgent(name string, m store.AgentMetrics) Suggestion {
	if m.TotalRuns == 0 {
		return Suggestion{Agent: name, Suggestion: "keep", Confidence: 0.5, Reason: "no recent activity"}
	}
	switch {
	case m.TotalRuns >= 5 && m.FailureRate >= 0.6:
		return Suggestion{Agent: name, Suggestion: "demote", Confidence: m.FailureRate, Target: string(models.LifecycleDeprecated), Reason: "sustained high failure rate"}
	case m.TotalRuns >= 5 && m.FailureRate <= 0.1:
		return Suggestion{Agent: name, Suggestion: "promote", Confidence: 1 - m.FailureRate, Target: string(models.LifecycleActive), Reason: "sustained low failure rate"}
	default:
		return Suggestion{Agent: name, Suggestion: "keep", Confidence: 0.6, Reason: "no strong signal either way"}
	}
}

// suggestionsToJSON returns a []any of plain map[string]any elements (not
// models.JSON) so the result type-asserts the same way whether it
// round-tripped through a JSON-backed store (json.Unmarshal decodes
// objects into map[string]any) or stayed in an in-memory one.
func suggestionsToJSON(suggestions []Suggestion) []any {
	out := make([]any, len(suggestions))
	for i, s := range suggestions {
		out[i] = map[string]any{
			"agent": s.Agent, "suggestion": s.Suggestion, "confidence": s.Confidence,
			"target": s.Target, "reason": s.Reason,
		}
	}
	return out
}
