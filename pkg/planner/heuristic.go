package planner

import "strings"

// heuristicRule is one ordered entry in the keyword-triggered fallback
// table. The first rule whose match func returns true for the lowercased
// text wins.
type heuristicRule struct {
	name  string
	match func(textLower string) bool
	build func(textLower string) []plannedStep
}

// plannedStep is the planner-internal shape a rule, override, or
// meta-planner response produces, before ids are assigned and it becomes a
// models.Task. ref identifies the step for dependsOn resolution within the
// same batch — heuristic rules use the step's own index ("0", "1", ...);
// the meta-planner may supply its own step ids instead. dependsOn lists refs
// of other steps in the same batch, resolved by buildPlan.
type plannedStep struct {
	agent       string
	description string
	input       map[string]any
	ref         string
	dependsOn   []string
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// stripTrigger removes the first occurrence of any of triggers from text and
// trims the result, used to extract the note body in the memorize rule.
func stripTrigger(text string, triggers ...string) string {
	for _, t := range triggers {
		if idx := strings.Index(text, t); idx != -1 {
			return strings.TrimSpace(text[:idx] + text[idx+len(t):])
		}
	}
	return strings.TrimSpace(text)
}

// heuristicRules is the ordered fallback table from the planner's rule
// table: first match wins, default is chat_agent.
var heuristicRules = []heuristicRule{
	{
		name:  "database_schema",
		match: func(t string) bool { return containsAny(t, "database", "schema", "tabella") },
		build: func(t string) []plannedStep {
			return []plannedStep{
				{agent: "database_designer_agent", description: "design database schema"},
				{agent: "explanation_agent", description: "explain the schema design"},
			}
		},
	},
	{
		name:  "churn_prediction",
		match: func(t string) bool {
			return containsAny(t, "churn", "modello", "predict", "prevedere", "classificazione")
		},
		build: func(t string) []plannedStep {
			return []plannedStep{
				{agent: "r_analysis_agent", description: "run churn_demo predictive analysis", input: map[string]any{"script": "churn_demo"}},
				{agent: "explanation_agent", description: "explain the analysis results"},
			}
		},
	},
	{
		name:  "hardware_status",
		match: func(t string) bool {
			return containsAny(t, "stato del pc", "hardware", "cpu", "ram", "temperatura", "gpu")
		},
		build: func(t string) []plannedStep {
			return []plannedStep{{agent: "hardware_agent", description: "report hardware status"}}
		},
	},
	{
		name: "archive_memory",
		match: func(t string) bool {
			return strings.Contains(t, "memoria") && containsAny(t, "riassumi", "archivia", "compatta")
		},
		build: func(t string) []plannedStep {
			return []plannedStep{{agent: "archivist_agent", description: "summarize and archive memory"}}
		},
	},
	{
		name:  "emotional_state",
		match: func(t string) bool { return containsAny(t, "come stai", "stato interno", "stato emotivo") },
		build: func(t string) []plannedStep {
			return []plannedStep{{agent: "state_explainer_agent", description: "explain current emotional state"}}
		},
	},
	{
		name: "memorize",
		match: func(t string) bool {
			return containsAny(t, "ricordati", "ricorda", "memorizza", "annota", "salva in memoria")
		},
		build: func(t string) []plannedStep {
			note := stripTrigger(t, "ricordati", "ricorda", "memorizza", "annota", "salva in memoria")
			return []plannedStep{{agent: "memory_agent", description: "store user note", input: map[string]any{"scope": "user", "note": note}}}
		},
	},
	{
		name:  "project_context",
		match: func(t string) bool { return containsAny(t, "contesto progetto", "riassumi il progetto") },
		build: func(t string) []plannedStep {
			return []plannedStep{{agent: "project_context_agent", description: "summarize project context"}}
		},
	},
	{
		name:  "exploratory_analysis",
		match: func(t string) bool { return containsAny(t, "eda", "analisi esplorativa") },
		build: func(t string) []plannedStep {
			return []plannedStep{
				{agent: "r_eda_agent", description: "run exploratory data analysis"},
				{agent: "explanation_agent", description: "explain the exploratory analysis"},
			}
		},
	},
	{
		name:  "new_agent",
		match: func(t string) bool { return containsAny(t, "nuovo agente", "nuovi agent") },
		build: func(t string) []plannedStep {
			return []plannedStep{
				{agent: "architect_agent", description: "design new agent"},
				{agent: "validator_agent", description: "validate new agent definition"},
				{agent: "security_review_agent", description: "security-review new agent definition"},
				{agent: "critic_agent", description: "critique new agent definition"},
			}
		},
	},
	{
		name: "self_disclosure",
		match: func(t string) bool {
			return containsAny(t, "mi chiamo", "sono nato", "mi piace", "odio", "adoro", "mia figlia", "mio figlio")
		},
		build: func(t string) []plannedStep {
			return []plannedStep{
				{agent: "preference_learner_agent", description: "learn user preference from self-disclosure"},
				{agent: "curiosity_question_agent", description: "ask a curious follow-up question"},
			}
		},
	},
}

// heuristicFallback runs the ordered rule table against the last user
// message, defaulting to chat_agent if nothing matches.
func heuristicFallback(lastUserMessage string) []plannedStep {
	lower := strings.ToLower(lastUserMessage)
	for _, rule := range heuristicRules {
		if rule.match(lower) {
			return rule.build(lower)
		}
	}
	return []plannedStep{{agent: "chat_agent", description: "respond conversationally"}}
}
