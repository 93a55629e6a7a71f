package agents

import (
	"context"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// ReferenceAgent is a thin stand-in for a domain agent whose real
// implementation (R scripts, hardware telemetry, database design tooling)
// is expected to live outside this process as an external collaborator.
// It always succeeds with a fixed, honest message rather than fabricating
// a result.
type ReferenceAgent struct {
	name  string
	reply string
}

// NewReferenceAgent returns a ReferenceAgent that always replies with reply.
func NewReferenceAgent(name, reply string) *ReferenceAgent {
	return &ReferenceAgent{name: name, reply: reply}
}

func (a *ReferenceAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyUserVisibleMessage: a.reply},
		Status:        models.RunStatusSuccess,
		StartedAt:     time.Now(),
		FinishedAt:    time.Now(),
	}
}
