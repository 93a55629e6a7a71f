package agent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

type stubAgent struct {
	run func(ctx context.Context, req agent.RunRequest) *models.AgentRun
}

func (s *stubAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	return s.run(ctx, req)
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	r := agent.NewRegistry()
	require.NoError(t, r.Register("chat_agent", &stubAgent{}))
	err := r.Register("chat_agent", &stubAgent{})
	require.ErrorIs(t, err, agent.ErrDuplicateName)
}

func TestRegistry_RunUnknownAgent_YieldsFailureRun(t *testing.T) {
	r := agent.NewRegistry()
	run := r.Run(context.Background(), agent.RunRequest{AgentName: "missing"})
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusFailure, run.Status)
	assert.NotEmpty(t, run.OutputPayload.String(models.OutputKeyError))
}

func TestRegistry_RunRecoversPanicAsFailureRun(t *testing.T) {
	r := agent.NewRegistry()
	require.NoError(t, r.Register("boom", &stubAgent{
		run: func(ctx context.Context, req agent.RunRequest) *models.AgentRun {
			panic("kaboom")
		},
	}))

	run := r.Run(context.Background(), agent.RunRequest{AgentName: "boom"})
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusFailure, run.Status)
	assert.True(t, run.FinishedAt.After(run.StartedAt) || run.FinishedAt.Equal(run.StartedAt))
	assert.InDelta(t, 0.1, run.EmotionDelta.Frustration, 1e-9)
}

func TestRegistry_Discover_RegistersAllAndFailsOnDuplicate(t *testing.T) {
	r := agent.NewRegistry()
	err := r.Discover(func() []agent.Named {
		return []agent.Named{
			{Name: "a", Agent: &stubAgent{}},
			{Name: "b", Agent: &stubAgent{}},
		}
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())

	err = r.Discover(func() []agent.Named {
		return []agent.Named{{Name: "a", Agent: &stubAgent{}}}
	})
	require.ErrorIs(t, err, agent.ErrDuplicateName)
}
