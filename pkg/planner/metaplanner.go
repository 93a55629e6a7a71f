package planner

import (
	"fmt"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// metaPlannerStep is the shape a registered meta-planner agent is expected
// to emit per step, via its AgentRun.OutputPayload["steps"].
type metaPlannerStep struct {
	StepID       string
	Agent        string
	Description  string
	Input        map[string]any
	DependsOn    []string
	MaxRetries   int
	CostEstimate float64
	Budget       float64
}

// parseMetaPlannerOutput reads the meta-planner agent's output payload into
// ordered steps plus plan metadata. A non-conforming payload (ParseFailure)
// returns an error; the caller falls back to heuristic planning.
func parseMetaPlannerOutput(output models.JSON) ([]metaPlannerStep, models.PlanMetadata, error) {
	rawSteps, ok := output["steps"].([]any)
	if !ok {
		return nil, models.PlanMetadata{}, fmt.Errorf("meta-planner output missing a \"steps\" list")
	}

	steps := make([]metaPlannerStep, 0, len(rawSteps))
	for i, raw := range rawSteps {
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, models.PlanMetadata{}, fmt.Errorf("meta-planner step %d is not an object", i)
		}
		agentName, _ := fields["agent"].(string)
		if agentName == "" {
			return nil, models.PlanMetadata{}, fmt.Errorf("meta-planner step %d missing \"agent\"", i)
		}
		step := metaPlannerStep{
			StepID:       stringField(fields, "id"),
			Agent:        agentName,
			Description:  stringField(fields, "description"),
			MaxRetries:   intField(fields, "max_retries"),
			CostEstimate: floatField(fields, "cost_estimate"),
			Budget:       floatField(fields, "budget"),
		}
		if step.StepID == "" {
			step.StepID = fmt.Sprintf("%d", i)
		}
		if in, ok := fields["input"].(map[string]any); ok {
			step.Input = in
		}
		if deps, ok := fields["depends_on"].([]any); ok {
			for _, d := range deps {
				if s, ok := d.(string); ok {
					step.DependsOn = append(step.DependsOn, s)
				}
			}
		}
		steps = append(steps, step)
	}

	meta := models.PlanMetadata{Source: models.PlanSourceLLM}
	if governanceMode, ok := output["governance_mode"].(bool); ok {
		meta.GovernanceMode = governanceMode
	}
	meta.GovernanceReason = stringField(output, "governance_reason")
	meta.Notes = stringField(output, "notes")
	if targets, ok := output["governance_targets"].([]any); ok {
		for _, t := range targets {
			if s, ok := t.(string); ok {
				meta.GovernanceTargets = append(meta.GovernanceTargets, s)
			}
		}
	}
	return steps, meta, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func floatField(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)
	return v
}
