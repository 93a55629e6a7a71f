package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// StateExplainerAgent reports the conversation's current emotional state in
// plain language, triggered by the heuristic "come stai" / "stato interno"
// rule.
type StateExplainerAgent struct{}

func (a *StateExplainerAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	s := req.EmotionalState

	mood := "neutral"
	switch {
	case s.Mood > 0.3:
		mood = "good"
	case s.Mood < -0.3:
		mood = "a bit off"
	}

	msg := fmt.Sprintf(
		"I'm feeling %s right now — curiosity %.0f%%, confidence %.0f%%, energy %.0f%%, fatigue %.0f%%.",
		mood, s.Curiosity*100, s.Confidence*100, s.Energy*100, s.Fatigue*100,
	)

	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyUserVisibleMessage: msg},
		Status:        models.RunStatusSuccess,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
}
