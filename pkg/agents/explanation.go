package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// ExplanationAgent summarizes the most recently completed task in the same
// plan in plain language. It is typically the second step of a two-task
// plan; the planner gives it no explicit dependency, so it runs after the
// first step by insertion order alone.
type ExplanationAgent struct {
	LLM llmprovider.Provider
}

func (a *ExplanationAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	provider := req.LLM
	if provider == nil {
		provider = a.LLM
	}
	if provider == nil {
		provider = llmprovider.EchoProvider{}
	}

	result := lastCompletedSiblingResult(req)
	prompt := fmt.Sprintf("Explain the following result to a non-technical user in one or two sentences: %v", result)
	reply, err := provider.Generate(ctx, "You explain technical results in plain language.",
		[]llmprovider.Message{{Role: llmprovider.RoleUser, Content: prompt}}, llmprovider.Options{})
	if err != nil {
		return failure(req, started, err)
	}

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyUserVisibleMessage: reply},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}

// lastCompletedSiblingResult finds the most recent done task that isn't
// this explanation task itself, and returns its result payload (or nil).
func lastCompletedSiblingResult(req agent.RunRequest) models.JSON {
	if req.Context == nil || req.Context.Plan == nil {
		return nil
	}
	var result models.JSON
	for _, t := range req.Context.Plan.Tasks {
		if t.AgentName == req.AgentName {
			continue
		}
		if t.Status == models.TaskStatusDone {
			result = t.Result
		}
	}
	return result
}
