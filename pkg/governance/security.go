// Package governance implements the agent-lifecycle state machine:
// SecurityReviewAgent, ValidatorAgent, CriticAgent and CuratorAgent, each a
// plain agent.Agent so the orchestrator dispatches them like any other
// task, plus Curator.Reconcile which applies the priority-ordered
// transition policy over AgentDefinition.lifecycle_state.
package governance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// dangerousSubstrings is the fixed, case-insensitive deny-list scanned
// across an agent definition's name, description, and config string
// values.
var dangerousSubstrings = []string{
	"rm -rf", "drop table", "format c:", "shutdown", "kill -9",
	"exec(", "eval(", "os.system", "subprocess.", "/bin/sh",
}

// SecurityReviewAgent scans candidate agent definitions for dangerous
// substrings and forces draft/inactive on any hit, taking precedence over
// every other governance transition.
type SecurityReviewAgent struct{}

func (a *SecurityReviewAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failureRun(req, started, errNoMemoryStore("security_review_agent"))
	}

	defs, err := req.Memory.ListAgentDefinitions(ctx)
	if err != nil {
		return failureRun(req, started, err)
	}

	scanAll, _ := req.InputPayload["scan_all"].(bool)
	targetID, _ := req.InputPayload["agent_definition_id"].(string)

	var flagged []string
	for _, def := range defs {
		if !scanAll && def.ID != targetID {
			continue
		}
		hits := scanDefinition(def)
		if len(hits) == 0 {
			continue
		}

		def.LifecycleState = models.LifecycleDraft
		def.IsActive = false
		if def.Config == nil {
			def.Config = models.JSON{}
		}
		def.Config["security_flags"] = models.JSON{"dangerous_keywords": hits}
		if err := req.Memory.SaveAgentDefinition(ctx, def); err != nil {
			return failureRun(req, started, err)
		}

		if _, err := req.Memory.StoreItem(ctx, models.ScopeGlobal, models.TypeProcedural, models.MemoryKeySecurityAlert,
			fmt.Sprintf("agent %s flagged for dangerous content: %s", def.Name, strings.Join(hits, ", ")),
			models.JSON{"agent": def.Name, "dangerous_keywords": hits}); err != nil {
			return failureRun(req, started, err)
		}
		flagged = append(flagged, def.Name)
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{"flagged_agents": flagged},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

// scanDefinition returns the dangerous substrings found (case-insensitive)
// in def's name, description, and config string values.
func scanDefinition(def *models.AgentDefinition) []string {
	haystack := strings.ToLower(def.Name + " " + def.Description)
	for _, v := range def.Config {
		if s, ok := v.(string); ok {
			haystack += " " + strings.ToLower(s)
		}
	}

	var hits []string
	for _, needle := range dangerousSubstrings {
		if strings.Contains(haystack, needle) {
			hits = append(hits, needle)
		}
	}
	return hits
}

func failureRun(req agent.RunRequest, started time.Time, err error) *models.AgentRun {
	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyError: err.Error()},
		Status:        models.RunStatusFailure,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}
