package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

func TestClamp_BoundsEveryComponent(t *testing.T) {
	state := models.EmotionalState{
		Curiosity: 5, Fatigue: -5, Frustration: 2, Confidence: -2,
		Energy: 10, Playfulness: -10, SocialNeed: 3, LearningDrive: -3,
		Mood: 5,
	}
	got := Clamp(state)

	assert.Equal(t, 1.0, got.Curiosity)
	assert.Equal(t, 0.0, got.Fatigue)
	assert.Equal(t, 1.0, got.Frustration)
	assert.Equal(t, 0.0, got.Confidence)
	assert.Equal(t, 1.0, got.Energy)
	assert.Equal(t, 0.0, got.Playfulness)
	assert.Equal(t, 1.0, got.SocialNeed)
	assert.Equal(t, 0.0, got.LearningDrive)
	assert.Equal(t, 1.0, got.Mood)
}

func TestDecay_AppliesAllSevenRules(t *testing.T) {
	state := models.EmotionalState{
		Fatigue: 0.5, Frustration: 0.5, Mood: 0.5, Energy: 0.2,
		SocialNeed: 0.5, Playfulness: 0.5, LearningDrive: 0.5,
	}
	got := Decay(state)

	assert.InDelta(t, 0.45, got.Fatigue, 1e-9)
	assert.InDelta(t, 0.45, got.Frustration, 1e-9)
	assert.InDelta(t, 0.475, got.Mood, 1e-9)
	assert.InDelta(t, 0.2+0.1*0.4, got.Energy, 1e-9)
	assert.InDelta(t, 0.49, got.SocialNeed, 1e-9)
	assert.InDelta(t, 0.49, got.Playfulness, 1e-9)
	assert.InDelta(t, 0.5*0.99+0.01, got.LearningDrive, 1e-9)
}

func TestRuleDelta_SuccessFailureAndSubstringTriggers(t *testing.T) {
	tests := []struct {
		name      string
		status    models.RunStatus
		agentName string
		check     func(t *testing.T, d models.EmotionDelta)
	}{
		{
			name:   "plain success",
			status: models.RunStatusSuccess, agentName: "chat_agent",
			check: func(t *testing.T, d models.EmotionDelta) {
				assert.InDelta(t, 0.05, d.Confidence, 1e-9)
				// chat substring also applies.
				assert.InDelta(t, -0.02, d.SocialNeed, 1e-9)
			},
		},
		{
			name:   "analysis_planner success adds curiosity and learning_drive",
			status: models.RunStatusSuccess, agentName: "analysis_planner_agent",
			check: func(t *testing.T, d models.EmotionDelta) {
				assert.InDelta(t, 0.02+0.03, d.Curiosity, 1e-9)
				assert.InDelta(t, 0.02+0.03, d.LearningDrive, 1e-9)
			},
		},
		{
			name:   "requirements failure adds extra frustration and mood hit",
			status: models.RunStatusFailure, agentName: "requirements_agent",
			check: func(t *testing.T, d models.EmotionDelta) {
				assert.InDelta(t, 0.08+0.05, d.Frustration, 1e-9)
				assert.InDelta(t, -0.08-0.03, d.Mood, 1e-9)
			},
		},
		{
			name:   "plain failure",
			status: models.RunStatusFailure, agentName: "hardware_agent",
			check: func(t *testing.T, d models.EmotionDelta) {
				assert.InDelta(t, -0.05, d.Confidence, 1e-9)
				assert.InDelta(t, 0.05, d.SocialNeed, 1e-9)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, RuleDelta(tc.status, tc.agentName))
		})
	}
}

func TestUpdateOnAgentRun_ClampsResult(t *testing.T) {
	state := models.EmotionalState{Confidence: 0.98, Frustration: 0.01}
	next, delta := UpdateOnAgentRun(state, models.RunStatusFailure, "r_analysis_agent")
	require.NotNil(t, delta)
	assert.LessOrEqual(t, next.Confidence, 1.0)
	assert.GreaterOrEqual(t, next.Frustration, 0.0)
}
