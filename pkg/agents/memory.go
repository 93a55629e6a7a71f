package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// MemoryAgent stores a note extracted by the heuristic "memorize" rule (or
// an explicit memory-write request) as a new memory item. Content is
// always inserted as a new row, never updated in place, matching
// pkg/store.Store.StoreItem's versioning contract.
type MemoryAgent struct{}

func (a *MemoryAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	note, _ := req.InputPayload["note"].(string)
	scopeStr, _ := req.InputPayload["scope"].(string)
	scope := models.ScopeUser
	if scopeStr != "" {
		scope = models.MemoryScope(scopeStr)
	}

	if note == "" {
		return failure(req, started, fmt.Errorf("memory_agent: empty note"))
	}
	if req.Memory == nil {
		return failure(req, started, fmt.Errorf("memory_agent: no memory store configured"))
	}

	item, err := req.Memory.StoreItem(ctx, scope, models.TypeSemantic, models.MemoryKeyUserProfile, note, models.JSON{"profile_candidate": true})
	if err != nil {
		return failure(req, started, fmt.Errorf("memory_agent: store item: %w", err))
	}

	return &models.AgentRun{
		AgentName:    req.AgentName,
		InputPayload: req.InputPayload,
		OutputPayload: models.JSON{
			models.OutputKeyUserVisibleMessage: "Got it, I'll remember that.",
			"memory_item_id":                  item.ID,
		},
		Status:     models.RunStatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

// failure is a shared helper for building a failure AgentRun with the
// conventional output_payload.error key.
func failure(req agent.RunRequest, started time.Time, err error) *models.AgentRun {
	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyError: err.Error()},
		Status:        models.RunStatusFailure,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}
