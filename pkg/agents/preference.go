package agents

import (
	"context"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// PreferenceLearnerAgent stores the triggering user message as a candidate
// profile fact, for both the explicit "impara che" / "learn that" override
// and the self-disclosure heuristic rule.
type PreferenceLearnerAgent struct{}

func (a *PreferenceLearnerAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failure(req, started, errNoMemoryStore)
	}

	text := req.Context.LastUserMessage()
	item, err := req.Memory.StoreItem(ctx, models.ScopeUser, models.TypeSemantic, models.MemoryKeyUserProfile, text, models.JSON{"profile_candidate": true})
	if err != nil {
		return failure(req, started, err)
	}

	return &models.AgentRun{
		AgentName:    req.AgentName,
		InputPayload: req.InputPayload,
		OutputPayload: models.JSON{
			models.OutputKeyUserVisibleMessage: "Thanks, I've updated what I know about you.",
			"memory_item_id":                  item.ID,
		},
		Status:     models.RunStatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}
