// Package agents provides the reference agent bodies this repo ships with.
// The core engine (pkg/planner, pkg/orchestrator, pkg/agent) only needs
// the agent.Agent interface; concrete agent behavior is a narrow external
// collaborator by design. BuiltinAgents registers enough working agents to
// exercise every planner rule end to end, including the ones whose real
// domain logic (R analysis scripts, hardware telemetry, database design)
// is expected to live outside this process — those are thin reference
// stand-ins, not the real thing.
package agents

import (
	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
)

// BuiltinAgents is the discovery hook passed to agent.Registry.Discover,
// matching the build-time registration table pattern used in place of a
// runtime directory scan. llm is wired into the agents that actually call
// out to a model; agents.Run also receives req.LLM per call, but the
// registry is built once at startup so agents that need a default provider
// (absent a per-request override) take it here.
func BuiltinAgents(llm llmprovider.Provider) []agent.Named {
	return []agent.Named{
		{Name: "chat_agent", Agent: &ChatAgent{LLM: llm}},
		{Name: "requirements_agent", Agent: &RequirementsAgent{}},
		{Name: "memory_agent", Agent: &MemoryAgent{}},
		{Name: "explanation_agent", Agent: &ExplanationAgent{LLM: llm}},
		{Name: "state_explainer_agent", Agent: &StateExplainerAgent{}},
		{Name: "meta_planner_agent", Agent: &MetaPlannerAgent{LLM: llm}},
		{Name: "preference_learner_agent", Agent: &PreferenceLearnerAgent{}},
		{Name: "diagnostics_agent", Agent: &DiagnosticsAgent{}},
		{Name: "curiosity_question_agent", Agent: NewReferenceAgent("curiosity_question_agent", "I'm curious — what made you think of that?")},
		{Name: "project_context_agent", Agent: NewReferenceAgent("project_context_agent", "Here's a quick summary of what we've been working on.")},
		{Name: "archivist_agent", Agent: NewReferenceAgent("archivist_agent", "I've summarized and archived the older memory entries.")},
		{Name: "state_reporter_agent", Agent: NewReferenceAgent("state_reporter_agent", "System state nominal.")},
		{Name: "hardware_agent", Agent: NewReferenceAgent("hardware_agent", "Hardware telemetry is reported by an external collector; none is wired up in this deployment.")},
		{Name: "database_designer_agent", Agent: NewReferenceAgent("database_designer_agent", "A schema draft would normally come from the database-design service; sketching one here is out of scope for this deployment.")},
		{Name: "r_analysis_agent", Agent: NewReferenceAgent("r_analysis_agent", "The R analysis runner is an external subprocess bridge; this deployment has none configured.")},
		{Name: "r_eda_agent", Agent: NewReferenceAgent("r_eda_agent", "Exploratory data analysis runs out of process via the R bridge; none is configured here.")},
		{Name: "architect_agent", Agent: &ArchitectAgent{}},
		{Name: "codegen_agent", Agent: NewReferenceAgent("codegen_agent", "Code generation for the new agent has been queued with the external build pipeline.")},
	}
}
