package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
	"github.com/ludwigkubler/cognitive-os/pkg/store/memstore"
)

func TestStoreItem_LoadItemContent_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	_, err := s.StoreItem(ctx, models.ScopeUser, models.TypeSemantic, "user_profile", "likes Ubuntu", nil)
	require.NoError(t, err)

	scope := models.ScopeUser
	content, ok, err := s.LoadItemContent(ctx, "user_profile", &scope, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "likes Ubuntu", content)
}

func TestStoreItem_NeverUpdatesInPlace_LatestWins(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	_, err := s.StoreItem(ctx, models.ScopeUser, models.TypeSemantic, "k", "first", nil)
	require.NoError(t, err)
	_, err = s.StoreItem(ctx, models.ScopeUser, models.TypeSemantic, "k", "second", nil)
	require.NoError(t, err)

	content, ok, err := s.LoadItemContent(ctx, "k", nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", content)

	items, err := s.FindItemsByKey(ctx, "k", nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2, "history is preserved, not overwritten")
}

func TestLogEvent_GetEvents_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	payload := models.JSON{"num_tasks": 1}
	logged, err := s.LogEvent(ctx, models.EventPlanCreated, "corr-1", payload)
	require.NoError(t, err)

	events, err := s.GetEvents(ctx, "corr-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, logged.Type, events[0].Type)
	assert.Equal(t, logged.CorrelationID, events[0].CorrelationID)
	assert.Equal(t, logged.Payload["num_tasks"], events[0].Payload["num_tasks"])
}

func TestSaveAgentDefinition_ListAgentDefinitions_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	def := &models.AgentDefinition{
		ID:             "def-1",
		Name:           "hardware_agent",
		Description:    "reports CPU/RAM/temperature",
		LifecycleState: models.LifecycleDraft,
	}
	require.NoError(t, s.SaveAgentDefinition(ctx, def))

	def.Description = "updated description"
	def.LifecycleState = models.LifecycleActive
	def.IsActive = true
	require.NoError(t, s.SaveAgentDefinition(ctx, def))

	defs, err := s.ListAgentDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "updated description", defs[0].Description)
	assert.Equal(t, models.LifecycleActive, defs[0].LifecycleState)
	assert.True(t, defs[0].IsActive)
}

func TestSaveAgentDefinition_RejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	require.NoError(t, s.SaveAgentDefinition(ctx, &models.AgentDefinition{ID: "a", Name: "chat_agent"}))
	err := s.SaveAgentDefinition(ctx, &models.AgentDefinition{ID: "b", Name: "chat_agent"})
	require.ErrorIs(t, err, store.ErrDuplicateAgentName)
}

func TestGetAgentMetricsFromDiagnostics_Projects(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.SetDiagnostics(models.JSON{
		"global_avg_duration": 1.5,
		"per_agent": map[string]any{
			"codegen_agent": map[string]any{
				"total_runs":   10,
				"failure_rate": 0.8,
				"avg_duration": 2.1,
			},
		},
	})

	metrics, err := s.GetAgentMetricsFromDiagnostics(ctx)
	require.NoError(t, err)
	m, ok := metrics["codegen_agent"]
	require.True(t, ok)
	assert.Equal(t, 10, m.TotalRuns)
	assert.InDelta(t, 0.8, m.FailureRate, 1e-9)
	assert.InDelta(t, 1.5, m.GlobalAvgDuration, 1e-9)
}
