package planner

import (
	"strings"

	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// explicitOverrideRule is a social-command trigger that short-circuits
// model-assisted planning with a single-task plan.
type explicitOverrideRule struct {
	keywords []string
	agent    string
}

var explicitOverrideRules = []explicitOverrideRule{
	{keywords: []string{"aggiorna il mio profilo", "update my profile"}, agent: "preference_learner_agent"},
	{keywords: []string{"impara che", "learn that"}, agent: "preference_learner_agent"},
	{keywords: []string{"sono curioso", "i'm curious", "chiedimi qualcosa"}, agent: "curiosity_question_agent"},
}

// matchExplicitOverride returns the single agent to invoke if lastUserMessage
// matches a fixed social-command trigger, or "" if none matches.
func matchExplicitOverride(lastUserMessage string) string {
	lower := strings.ToLower(lastUserMessage)
	for _, rule := range explicitOverrideRules {
		if containsAny(lower, rule.keywords...) {
			return rule.agent
		}
	}
	return ""
}

// governanceKeywords trigger governance mode when present in user text.
var governanceKeywords = []string{
	"nuovo agent", "refactor", "migliora l'agent", "governance", "auto-miglioramento",
}

// detectGovernanceMode implements the three-way governance trigger: forced
// by the caller, user text contains a governance keyword, or metrics show a
// clearly failing agent while frustration is elevated.
func detectGovernanceMode(lastUserMessage string, forced bool, frustration float64, metrics map[string]store.AgentMetrics) (bool, string) {
	if forced {
		return true, "forced by caller"
	}
	if containsAny(strings.ToLower(lastUserMessage), governanceKeywords...) {
		return true, "user text requested agent governance"
	}
	if frustration >= 0.4 {
		for name, m := range metrics {
			if m.TotalRuns >= 5 && m.FailureRate >= 0.6 {
				return true, "agent " + name + " has a high failure rate and frustration is elevated"
			}
		}
	}
	return false, ""
}

// governanceTargets returns the union of metric-identified failing agents
// and any agent named by a recent security_alert, deduplicated.
func governanceTargets(metrics map[string]store.AgentMetrics, securityFlaggedAgents []string) []string {
	seen := make(map[string]bool)
	var out []string
	for name, m := range metrics {
		if m.TotalRuns >= 5 && m.FailureRate >= 0.6 && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range securityFlaggedAgents {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
