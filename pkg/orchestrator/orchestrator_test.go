package orchestrator_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/orchestrator"
	"github.com/ludwigkubler/cognitive-os/pkg/planner"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
	"github.com/ludwigkubler/cognitive-os/pkg/store/memstore"
)

// fixedReplyAgent always succeeds with a constant visible message.
type fixedReplyAgent struct{ reply string }

func (a fixedReplyAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyUserVisibleMessage: a.reply},
		Status:        models.RunStatusSuccess,
	}
}

// alwaysFailAgent always fails with a fixed error message.
type alwaysFailAgent struct{}

func (alwaysFailAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	return &models.AgentRun{
		AgentName:     req.AgentName,
		InputPayload:  req.InputPayload,
		OutputPayload: models.JSON{models.OutputKeyError: "boom"},
		Status:        models.RunStatusFailure,
	}
}

func seedRequirementsSheet(t *testing.T, s store.Store, conversationID string) {
	t.Helper()
	key := models.RequirementsSheetKey(conversationID)
	_, err := s.StoreItem(context.Background(), models.ScopeConversation, models.TypeProcedural, key, "{}", nil)
	require.NoError(t, err)
}

func newTestOrchestrator(t *testing.T, agents map[string]agent.Agent) (*orchestrator.Orchestrator, store.Store) {
	t.Helper()
	s := memstore.New()
	reg := agent.NewRegistry()
	for name, a := range agents {
		require.NoError(t, reg.Register(name, a))
	}
	p := planner.New(reg)
	return orchestrator.New(reg, p, s, nil), s
}

func TestHandleUserMessage_GreetingDispatchesChatAgent(t *testing.T) {
	o, s := newTestOrchestrator(t, map[string]agent.Agent{
		"chat_agent": fixedReplyAgent{reply: "ciao! tutto bene."},
	})
	seedRequirementsSheet(t, s, "conv-1")

	reply, err := o.HandleUserMessage(context.Background(), "conv-1", "user-1", "ciao, come va?")
	require.NoError(t, err)
	assert.Equal(t, "ciao! tutto bene.", reply)

	events, err := s.GetEvents(context.Background(), "conv-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, models.EventRequestReceived, events[0].Type)
	assert.Equal(t, models.EventPlanCreated, events[1].Type)
	assert.Equal(t, models.EventTaskAssigned, events[2].Type)
	assert.Equal(t, models.EventAgentRunCompleted, events[3].Type)
}

func TestHandleUserMessage_FallbackWhenNoVisibleText(t *testing.T) {
	o, s := newTestOrchestrator(t, map[string]agent.Agent{
		"chat_agent": fixedReplyAgent{reply: ""},
	})
	seedRequirementsSheet(t, s, "conv-1")

	reply, err := o.HandleUserMessage(context.Background(), "conv-1", "user-1", "che tempo fa oggi?")
	require.NoError(t, err)
	assert.Equal(t, orchestrator.FallbackMessage, reply)
}

func TestHandleUserMessage_RetryThenGiveUp(t *testing.T) {
	o, s := newTestOrchestrator(t, map[string]agent.Agent{
		"chat_agent": alwaysFailAgent{},
	})
	seedRequirementsSheet(t, s, "conv-1")
	o.MaxTasksPerTurn = 5

	reply, err := o.HandleUserMessage(context.Background(), "conv-1", "user-1", "che tempo fa oggi?")
	require.NoError(t, err)
	assert.Contains(t, reply, "[ERROR in agent 'chat_agent']")
	assert.Contains(t, reply, "boom")

	events, err := s.GetEvents(context.Background(), "conv-1", 0)
	require.NoError(t, err)
	failed := 0
	for _, e := range events {
		if e.Type == models.EventAgentRunFailed {
			failed++
		}
	}
	// planner.DefaultTaskMaxRetries = 1 -> two attempts total (original +
	// one retry), since chat_agent's task carries no explicit max_retries
	// override.
	assert.Equal(t, 2, failed)
}

func TestHandleUserMessage_IntakeGateWhenNoRequirementsSheet(t *testing.T) {
	o, _ := newTestOrchestrator(t, map[string]agent.Agent{
		"requirements_agent": fixedReplyAgent{reply: "let's start with a few questions."},
	})

	reply, err := o.HandleUserMessage(context.Background(), "conv-2", "user-1", "analizza il churn dei miei clienti")
	require.NoError(t, err)
	assert.Equal(t, "let's start with a few questions.", reply)
}

func TestHandleUserMessage_EmotionalStatePersistsAcrossTurns(t *testing.T) {
	o, s := newTestOrchestrator(t, map[string]agent.Agent{
		"chat_agent": alwaysFailAgent{},
	})
	seedRequirementsSheet(t, s, "conv-1")
	o.MaxTasksPerTurn = 1

	// Drive enough failing turns that frustration crosses the
	// governance-mode trigger threshold (0.4). Each turn decays it by 10%
	// and the failed run adds 0.08, so it only climbs past 0.4 (about 0.52
	// after ten turns) if the snapshot written at the end of one
	// HandleUserMessage call is read back at the start of the next; every
	// call starting from the default state would leave it at 0.08.
	var reply string
	var err error
	for i := 0; i < 10; i++ {
		reply, err = o.HandleUserMessage(context.Background(), "conv-1", "user-1", "che tempo fa oggi?")
		require.NoError(t, err)
	}
	// With one task per turn, each turn's single attempt fails with a retry
	// still left, so no error fragment is synthesized and the reply is the
	// fallback message.
	assert.Equal(t, orchestrator.FallbackMessage, reply)

	items, err := s.FindItemsByKey(context.Background(), models.EmotionalSnapshotKey("conv-1"), nil, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Content, `"frustration"`)

	var snapshot models.EmotionalState
	require.NoError(t, json.Unmarshal([]byte(items[0].Content), &snapshot))
	assert.Greater(t, snapshot.Frustration, 0.4)
}

func TestHandleUserMessage_RespectsMaxTasksPerTurn(t *testing.T) {
	o, s := newTestOrchestrator(t, map[string]agent.Agent{
		"chat_agent": alwaysFailAgent{},
	})
	seedRequirementsSheet(t, s, "conv-1")
	o.MaxTasksPerTurn = 1

	_, err := o.HandleUserMessage(context.Background(), "conv-1", "user-1", "che tempo fa oggi?")
	require.NoError(t, err)

	events, err := s.GetEvents(context.Background(), "conv-1", 0)
	require.NoError(t, err)
	assigned := 0
	for _, e := range events {
		if e.Type == models.EventTaskAssigned {
			assigned++
		}
	}
	assert.Equal(t, 1, assigned)
}
