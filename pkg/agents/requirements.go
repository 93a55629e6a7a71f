package agents

import (
	"context"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// RequirementsAgent runs whenever the planner's intake gate finds no
// requirements_sheet on file. It records a minimal sheet so the gate opens
// on the next turn and asks the user to confirm or expand on it — a real
// deployment would turn this into a multi-turn structured interview.
type RequirementsAgent struct{}

func (a *RequirementsAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failure(req, started, errNoMemoryStore)
	}

	goal := req.Context.LastUserMessage()
	key := models.RequirementsSheetKey(req.Context.ID)
	_, err := req.Memory.StoreItem(ctx, models.ScopeConversation, models.TypeProcedural, key,
		`{"goal":"`+goal+`"}`, models.JSON{"source": "auto_intake"})
	if err != nil {
		return failure(req, started, err)
	}

	return &models.AgentRun{
		AgentName:    req.AgentName,
		InputPayload: req.InputPayload,
		OutputPayload: models.JSON{
			models.OutputKeyUserVisibleMessage: "Before I dig in — can you tell me a bit more about what you're trying to achieve?",
			models.OutputKeyStopForUserInput:   true,
		},
		Status:     models.RunStatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}
