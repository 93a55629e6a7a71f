package postgres

import (
	"context"
	"fmt"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// GetLastDiagnostics returns the most recently stored diagnostic_alert
// memory item's content, parsed as JSON. Diagnostics are written by regular
// memory items rather than a dedicated table, same as any other procedural
// knowledge.
func (s *Store) GetLastDiagnostics(ctx context.Context) (models.JSON, bool, error) {
	scope := models.ScopeGlobal
	typ := models.TypeProcedural
	content, ok, err := s.LoadItemContent(ctx, models.MemoryKeyDiagnosticAlert, &scope, &typ)
	if err != nil {
		return nil, false, fmt.Errorf("loading last diagnostics: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var payload models.JSON
	if err := unmarshalJSONInto([]byte(content), &payload); err != nil {
		return nil, false, fmt.Errorf("parsing diagnostics content: %w", err)
	}
	return payload, true, nil
}

// GetAgentMetricsFromDiagnostics projects per-agent metrics out of the last
// diagnostics payload's "per_agent" map, mirroring the in-memory store's
// projection so governance-mode detection behaves identically against
// either backend.
func (s *Store) GetAgentMetricsFromDiagnostics(ctx context.Context) (map[string]store.AgentMetrics, error) {
	diag, ok, err := s.GetLastDiagnostics(ctx)
	if err != nil || !ok {
		return nil, err
	}

	globalAvg, _ := diag["global_avg_duration"].(float64)

	perAgent, _ := diag["per_agent"].(map[string]any)
	out := make(map[string]store.AgentMetrics, len(perAgent))
	for name, raw := range perAgent {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		metrics := store.AgentMetrics{
			AgentName:         name,
			GlobalAvgDuration: globalAvg,
		}
		if v, ok := fields["total_runs"].(int); ok {
			metrics.TotalRuns = v
		} else if v, ok := fields["total_runs"].(float64); ok {
			metrics.TotalRuns = int(v)
		}
		if v, ok := fields["failure_rate"].(float64); ok {
			metrics.FailureRate = v
		}
		if v, ok := fields["avg_duration"].(float64); ok {
			metrics.AvgDuration = v
		}
		out[name] = metrics
	}
	return out, nil
}
