package governance

import (
	"context"
	"regexp"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// Structural minimums for a governed agent definition.
const (
	MinDescriptionLength  = 20
	MinSystemPromptLength = 10
)

var snakeCaseName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidatorAgent checks structural completeness of candidate definitions.
// Failures never halt the turn — they are collected on the run's output
// payload for the curator to read, and optionally auto-promote
// draft -> test when every check passes and the caller asked for it.
type ValidatorAgent struct{}

func (a *ValidatorAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failureRun(req, started, errNoMemoryStore("validator_agent"))
	}

	defs, err := req.Memory.ListAgentDefinitions(ctx)
	if err != nil {
		return failureRun(req, started, err)
	}

	autoPromote, _ := req.InputPayload["auto_promote"].(bool)
	targetID, _ := req.InputPayload["agent_definition_id"].(string)

	results := models.JSON{}
	for _, def := range defs {
		if def.LifecycleState != models.LifecycleDraft {
			continue
		}
		if targetID != "" && def.ID != targetID {
			continue
		}

		failures := validateDefinition(def)
		results[def.Name] = failures

		if len(failures) == 0 && autoPromote {
			def.LifecycleState = models.LifecycleTest
			if err := req.Memory.SaveAgentDefinition(ctx, def); err != nil {
				return failureRun(req, started, err)
			}
		}
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{"validation_results": results},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

// validateDefinition returns the list of structural failures for def, or
// nil if it passes every check.
func validateDefinition(def *models.AgentDefinition) []string {
	var failures []string
	if len(def.Description) < MinDescriptionLength {
		failures = append(failures, "description too short")
	}
	if !snakeCaseName.MatchString(def.Name) {
		failures = append(failures, "name is not snake_case")
	}
	prompt, _ := def.Config["system_prompt_template"].(string)
	if len(prompt) < MinSystemPromptLength {
		failures = append(failures, "system_prompt_template too short")
	}

	agentType, _ := def.Config["type"].(string)
	switch agentType {
	case "python":
		module, _ := def.Config["module"].(string)
		className, _ := def.Config["class_name"].(string)
		if module == "" || className == "" {
			failures = append(failures, "type=python requires non-empty module and class_name")
		}
	case "r":
		scriptPath, _ := def.Config["r_script_path"].(string)
		if scriptPath == "" {
			failures = append(failures, "type=r requires non-empty r_script_path")
		}
	default:
		failures = append(failures, "config.type must be \"python\" or \"r\"")
	}

	return failures
}
