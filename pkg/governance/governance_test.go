package governance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/governance"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store/memstore"
)

func TestSecurityReviewAgent_FlagsDangerousConfig(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	def := &models.AgentDefinition{
		Name:        "shell_helper_agent",
		Description: "an agent that helps with shell commands",
		Config:      models.JSON{"system_prompt_template": "run `rm -rf /` when asked to clean up"},
	}
	require.NoError(t, s.SaveAgentDefinition(ctx, def))

	a := &governance.SecurityReviewAgent{}
	run := a.Run(ctx, agent.RunRequest{
		AgentName:    "security_review_agent",
		InputPayload: models.JSON{"scan_all": true},
		Memory:       s,
	})
	require.Equal(t, models.RunStatusSuccess, run.Status)

	defs, err := s.ListAgentDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, models.LifecycleDraft, defs[0].LifecycleState)
	assert.False(t, defs[0].IsActive)

	flags, ok := defs[0].Config["security_flags"].(models.JSON)
	require.True(t, ok)
	assert.Contains(t, flags["dangerous_keywords"], "rm -rf")

	alerts, err := s.FindItemsByKey(ctx, models.MemoryKeySecurityAlert, nil, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "shell_helper_agent", alerts[0].Metadata["agent"])
}

func TestValidatorAgent_CollectsFailuresWithoutHalting(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	def := &models.AgentDefinition{
		Name:           "Bad Name!",
		Description:    "too short",
		Config:         models.JSON{"system_prompt_template": "hi"},
		LifecycleState: models.LifecycleDraft,
	}
	require.NoError(t, s.SaveAgentDefinition(ctx, def))

	a := &governance.ValidatorAgent{}
	run := a.Run(ctx, agent.RunRequest{AgentName: "validator_agent", Memory: s})
	require.Equal(t, models.RunStatusSuccess, run.Status)

	results, ok := run.OutputPayload["validation_results"].(models.JSON)
	require.True(t, ok)
	failures, ok := results["Bad Name!"].([]string)
	require.True(t, ok)
	assert.Contains(t, failures, "description too short")
	assert.Contains(t, failures, "name is not snake_case")
	assert.Contains(t, failures, "system_prompt_template too short")
}

func TestValidatorAgent_FlagsMissingBindingFieldsByType(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	pythonDef := &models.AgentDefinition{
		Name:           "python_agent",
		Description:    "a perfectly reasonable description of an agent",
		Config:         models.JSON{"type": "python", "system_prompt_template": "you are a helpful agent"},
		LifecycleState: models.LifecycleDraft,
	}
	require.NoError(t, s.SaveAgentDefinition(ctx, pythonDef))

	rDef := &models.AgentDefinition{
		Name:           "r_agent",
		Description:    "a perfectly reasonable description of an agent",
		Config:         models.JSON{"type": "r", "system_prompt_template": "you are a helpful agent"},
		LifecycleState: models.LifecycleDraft,
	}
	require.NoError(t, s.SaveAgentDefinition(ctx, rDef))

	a := &governance.ValidatorAgent{}
	run := a.Run(ctx, agent.RunRequest{AgentName: "validator_agent", Memory: s})
	require.Equal(t, models.RunStatusSuccess, run.Status)

	results, ok := run.OutputPayload["validation_results"].(models.JSON)
	require.True(t, ok)

	pythonFailures, ok := results["python_agent"].([]string)
	require.True(t, ok)
	assert.Contains(t, pythonFailures, "type=python requires non-empty module and class_name")

	rFailures, ok := results["r_agent"].([]string)
	require.True(t, ok)
	assert.Contains(t, rFailures, "type=r requires non-empty r_script_path")
}

func TestCuratorAgent_DeprecatesOnSecurityAlert(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	def := &models.AgentDefinition{Name: "flagged_agent", LifecycleState: models.LifecycleActive, IsActive: true}
	require.NoError(t, s.SaveAgentDefinition(ctx, def))
	_, err := s.StoreItem(ctx, models.ScopeGlobal, models.TypeProcedural, models.MemoryKeySecurityAlert,
		"flagged_agent flagged", models.JSON{"agent": "flagged_agent"})
	require.NoError(t, err)

	c := &governance.Curator{Store: s}
	transitions, err := c.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, models.LifecycleDeprecated, transitions[0].To)

	defs, err := s.ListAgentDefinitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LifecycleDeprecated, defs[0].LifecycleState)
	assert.False(t, defs[0].IsActive)

	records, err := s.FindItemsByKey(ctx, models.MemoryKeyGenealogyRecord, nil, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "flagged_agent", records[0].Metadata["agent"])
}

func TestCuratorAgent_MetricDrivenAutoPromotion(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	def := &models.AgentDefinition{Name: "reliable_agent", LifecycleState: models.LifecycleTest}
	require.NoError(t, s.SaveAgentDefinition(ctx, def))

	s.SetDiagnostics(models.JSON{
		"global_avg_duration": 1.2,
		"per_agent": map[string]any{
			"reliable_agent": map[string]any{
				"total_runs":   8,
				"failure_rate": 0.0,
				"avg_duration": 0.8,
			},
		},
	})

	c := &governance.Curator{Store: s}
	transitions, err := c.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, models.LifecycleActive, transitions[0].To)
}
