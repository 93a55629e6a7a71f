// Package emotion implements the bounded emotional-state vector and its two
// operations: inter-turn decay and the per-agent-run update rule table.
package emotion

import (
	"strings"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// Decay applies the inter-turn decay rules to state and returns the result.
// Applied once, at the start of every turn, before the user message is
// appended.
func Decay(state models.EmotionalState) models.EmotionalState {
	state.Fatigue *= 0.9
	state.Frustration *= 0.9
	state.Mood *= 0.95
	state.Energy += 0.1 * (0.6 - state.Energy)
	state.SocialNeed *= 0.98
	state.Playfulness *= 0.98
	state.LearningDrive = min64(1.0, state.LearningDrive*0.99+0.01)
	return Clamp(state)
}

// UpdateOnAgentRun computes the deterministic delta for a completed run and
// returns the clamped resulting state alongside the delta that was applied
// (the delta is what gets recorded on the AgentRun).
func UpdateOnAgentRun(state models.EmotionalState, status models.RunStatus, agentName string) (models.EmotionalState, models.EmotionDelta) {
	delta := RuleDelta(status, agentName)
	next := Apply(state, delta)
	return next, delta
}

// RuleDelta computes the delta for (status, agentName) per the rule table:
// base success/failure deltas, plus substring-triggered adjustments.
func RuleDelta(status models.RunStatus, agentName string) models.EmotionDelta {
	var delta models.EmotionDelta
	name := strings.ToLower(agentName)

	switch status {
	case models.RunStatusSuccess:
		delta = delta.Add(models.EmotionDelta{
			Confidence: 0.05, Curiosity: 0.02, Fatigue: 0.005,
			Frustration: -0.02, Mood: 0.05, Energy: 0.03, LearningDrive: 0.02,
		})
		if strings.Contains(name, "analysis_planner") {
			delta = delta.Add(models.EmotionDelta{Curiosity: 0.03, LearningDrive: 0.03})
		}
	case models.RunStatusFailure:
		delta = delta.Add(models.EmotionDelta{
			Confidence: -0.05, Frustration: 0.08, Fatigue: 0.03,
			Mood: -0.08, Energy: -0.02, SocialNeed: 0.05,
		})
		if strings.Contains(name, "requirements") {
			delta = delta.Add(models.EmotionDelta{Frustration: 0.05, Mood: -0.03})
		}
	}

	if strings.Contains(name, "chat") {
		delta = delta.Add(models.EmotionDelta{SocialNeed: -0.02})
	}

	return delta
}

// DefaultFailureDelta is applied when an agent's run() call itself threw
// rather than returning a failure AgentRun — the contract's recovery path.
func DefaultFailureDelta() models.EmotionDelta {
	return models.EmotionDelta{Frustration: 0.1, Confidence: -0.05}
}

// Apply sums delta into state and clamps every component to its declared
// range.
func Apply(state models.EmotionalState, delta models.EmotionDelta) models.EmotionalState {
	state.Curiosity += delta.Curiosity
	state.Fatigue += delta.Fatigue
	state.Frustration += delta.Frustration
	state.Confidence += delta.Confidence
	state.Energy += delta.Energy
	state.Playfulness += delta.Playfulness
	state.SocialNeed += delta.SocialNeed
	state.LearningDrive += delta.LearningDrive
	state.Mood += delta.Mood
	return Clamp(state)
}

// Clamp clamps every component of state to its declared range: [0,1] for
// all scalars except Mood, which is [-1,1].
func Clamp(state models.EmotionalState) models.EmotionalState {
	state.Curiosity = clamp01(state.Curiosity)
	state.Fatigue = clamp01(state.Fatigue)
	state.Frustration = clamp01(state.Frustration)
	state.Confidence = clamp01(state.Confidence)
	state.Energy = clamp01(state.Energy)
	state.Playfulness = clamp01(state.Playfulness)
	state.SocialNeed = clamp01(state.SocialNeed)
	state.LearningDrive = clamp01(state.LearningDrive)
	state.Mood = clampRange(state.Mood, -1, 1)
	return state
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
