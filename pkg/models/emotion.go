package models

// EmotionalState is a bounded vector describing a conversation's current
// affective state. Every scalar component except Mood lives in [0,1]; Mood
// lives in [-1,1]. The zero value lies within those ranges but is not the
// documented default — use NewEmotionalState for that.
type EmotionalState struct {
	Curiosity     float64 `json:"curiosity"`
	Fatigue       float64 `json:"fatigue"`
	Frustration   float64 `json:"frustration"`
	Confidence    float64 `json:"confidence"`
	Energy        float64 `json:"energy"`
	Playfulness   float64 `json:"playfulness"`
	SocialNeed    float64 `json:"social_need"`
	LearningDrive float64 `json:"learning_drive"`
	Mood          float64 `json:"mood"`
}

// NewEmotionalState returns the documented default state.
func NewEmotionalState() EmotionalState {
	return EmotionalState{
		Curiosity:     0.5,
		Confidence:    0.5,
		Energy:        0.6,
		LearningDrive: 0.7,
		Playfulness:   0.3,
		SocialNeed:    0.4,
	}
}

// EmotionDelta is an additive vector over the same components as
// EmotionalState. Applying a delta never clamps by itself — the caller
// clamps the resulting state.
type EmotionDelta struct {
	Curiosity     float64
	Fatigue       float64
	Frustration   float64
	Confidence    float64
	Energy        float64
	Playfulness   float64
	SocialNeed    float64
	LearningDrive float64
	Mood          float64
}

// Add returns a new delta with d and other summed component-wise.
func (d EmotionDelta) Add(other EmotionDelta) EmotionDelta {
	return EmotionDelta{
		Curiosity:     d.Curiosity + other.Curiosity,
		Fatigue:       d.Fatigue + other.Fatigue,
		Frustration:   d.Frustration + other.Frustration,
		Confidence:    d.Confidence + other.Confidence,
		Energy:        d.Energy + other.Energy,
		Playfulness:   d.Playfulness + other.Playfulness,
		SocialNeed:    d.SocialNeed + other.SocialNeed,
		LearningDrive: d.LearningDrive + other.LearningDrive,
		Mood:          d.Mood + other.Mood,
	}
}
