package governance

import "github.com/ludwigkubler/cognitive-os/pkg/agent"

// BuiltinAgents registers the four fixed-pipeline governance agents under
// their well-known names, matching the names pkg/planner's governance plan
// and heuristic table already reference.
func BuiltinAgents() []agent.Named {
	return []agent.Named{
		{Name: "security_review_agent", Agent: &SecurityReviewAgent{}},
		{Name: "validator_agent", Agent: &ValidatorAgent{}},
		{Name: "critic_agent", Agent: &CriticAgent{}},
		{Name: "curator_agent", Agent: &CuratorAgent{}},
	}
}
