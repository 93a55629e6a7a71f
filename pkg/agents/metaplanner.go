package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/planner"
)

// MetaPlannerAgent asks the configured LLM to propose a step-by-step plan
// as JSON, tolerantly extracts the first balanced object from its reply,
// and returns it verbatim as the output payload for
// pkg/planner.parseMetaPlannerOutput to consume. A malformed reply becomes
// a ParseFailure, surfaced as a failed AgentRun — the planner falls back to
// the heuristic table when this agent's run does not succeed.
type MetaPlannerAgent struct {
	LLM llmprovider.Provider
}

func (a *MetaPlannerAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	provider := req.LLM
	if provider == nil {
		provider = a.LLM
	}
	if provider == nil {
		return failure(req, started, fmt.Errorf("meta_planner_agent: no LLM provider configured"))
	}

	userText, _ := req.InputPayload["user_text"].(string)
	reply, err := provider.Generate(ctx, metaPlannerSystemPrompt,
		[]llmprovider.Message{{Role: llmprovider.RoleUser, Content: userText}}, llmprovider.Options{})
	if err != nil {
		return failure(req, started, err)
	}

	parsed, err := planner.ExtractJSON(reply)
	if err != nil {
		return failure(req, started, fmt.Errorf("meta_planner_agent: %w", err))
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON(parsed),
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

var metaPlannerSystemPrompt = strings.TrimSpace(`
You are a planning assistant. Given a user's request, respond with a single
JSON object of the form {"steps": [{"agent": "<agent_name>", "description":
"<what this step does>"}]}. Respond with nothing but the JSON object.
`)
