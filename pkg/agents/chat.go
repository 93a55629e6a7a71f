package agents

import (
	"context"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// ChatAgent is the default-fallback agent: a plain conversational reply
// with no side effects on memory or agent definitions.
type ChatAgent struct {
	LLM llmprovider.Provider
}

func (a *ChatAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	provider := req.LLM
	if provider == nil {
		provider = a.LLM
	}
	if provider == nil {
		provider = llmprovider.EchoProvider{}
	}

	reply, err := provider.Generate(ctx, chatSystemPrompt, historyAsMessages(req.Context), llmprovider.Options{})
	if err != nil {
		return &models.AgentRun{
			AgentName:     req.AgentName,
			InputPayload:  req.InputPayload,
			OutputPayload: models.JSON{models.OutputKeyError: err.Error()},
			Status:        models.RunStatusFailure,
			StartedAt:     started,
			FinishedAt:    time.Now(),
		}
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

const chatSystemPrompt = "You are a helpful, warm conversational assistant. Reply briefly and naturally."

// historyAsMessages converts the conversation's message log into the
// llmprovider.Message shape the provider interface expects.
func historyAsMessages(conv *models.ConversationContext) []llmprovider.Message {
	if conv == nil {
		return nil
	}
	out := make([]llmprovider.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		role := llmprovider.RoleUser
		switch m.Role {
		case models.RoleAssistant:
			role = llmprovider.RoleAssistant
		case models.RoleSystem:
			role = llmprovider.RoleSystem
		}
		out = append(out, llmprovider.Message{Role: role, Content: m.Content})
	}
	return out
}
