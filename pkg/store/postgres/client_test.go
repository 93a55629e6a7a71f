package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
	"github.com/ludwigkubler/cognitive-os/pkg/store/postgres"
)

// setupStore starts a disposable Postgres container, applies migrations via
// Open, and returns a ready Store. Skipped under -short since it needs a
// Docker daemon, matching the teacher's shared-container integration tests.
func setupStore(t *testing.T) store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("cognitiveos"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := postgres.Config{
		Host:     host,
		Port:     port.Int(),
		User:     "test",
		Password: "test",
		Database: "cognitiveos",
		SSLMode:  "disable",
	}

	s, err := postgres.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStore_MemoryItemRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	item, err := s.StoreItem(ctx, models.ScopeProject, models.TypeSemantic, "widget_spec", "a widget has three gears", models.JSON{"source": "chat"})
	require.NoError(t, err)
	require.NotEmpty(t, item.ID)

	content, ok, err := s.LoadItemContent(ctx, "widget_spec", nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a widget has three gears", content)

	scope := models.ScopeProject
	found, err := s.FindItemsByKey(ctx, "widget_spec", &scope, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "chat", found[0].Metadata["source"])
}

func TestStore_MessageOrdering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	convID := "conv-1"
	base := time.Now().Add(-time.Minute)
	for i, content := range []string{"hello", "how are you", "fine thanks"} {
		_, err := s.LogMessage(ctx, models.Message{
			ConversationID: convID,
			Role:           models.RoleUser,
			Content:        content,
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	msgs, err := s.GetRecentMessages(ctx, convID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "hello", msgs[0].Content)
	require.Equal(t, "fine thanks", msgs[2].Content)
}

func TestStore_AgentDefinitionNameConflict(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first := &models.AgentDefinition{Name: "chat_agent", LifecycleState: models.LifecycleActive, IsActive: true}
	require.NoError(t, s.SaveAgentDefinition(ctx, first))

	second := &models.AgentDefinition{Name: "chat_agent", LifecycleState: models.LifecycleDraft}
	err := s.SaveAgentDefinition(ctx, second)
	require.Error(t, err)

	defs, err := s.ListAgentDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
}

func TestStore_EventsAndAgentRuns(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.LogEvent(ctx, models.EventRequestReceived, "corr-1", models.JSON{"text": "hi"})
	require.NoError(t, err)
	_, err = s.LogEvent(ctx, models.EventPlanCreated, "corr-1", nil)
	require.NoError(t, err)

	events, err := s.GetEvents(ctx, "corr-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, models.EventRequestReceived, events[0].Type)
	require.Equal(t, models.EventPlanCreated, events[1].Type)

	run := &models.AgentRun{
		AgentName:     "chat_agent",
		InputPayload:  models.JSON{"text": "hi"},
		OutputPayload: models.JSON{"message": "hello!"},
		Status:        models.RunStatusSuccess,
		StartedAt:     time.Now(),
		FinishedAt:    time.Now(),
	}
	require.NoError(t, s.LogAgentRun(ctx, run))

	runs, err := s.GetRecentAgentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "chat_agent", runs[0].AgentName)
}
