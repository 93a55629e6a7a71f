package planner

import "strconv"

// governancePipelineAgents is the fixed step sequence used whenever
// governance mode is active, truncated to maxSteps.
var governancePipelineAgents = []string{
	"architect_agent",
	"security_review_agent",
	"validator_agent",
	"critic_agent",
	"curator_agent",
	"codegen_agent",
}

// buildGovernancePlan returns the fixed governance pipeline, each step
// depending on its predecessor, truncated to maxSteps.
func buildGovernancePlan(maxSteps int) []plannedStep {
	agents := governancePipelineAgents
	if maxSteps > 0 && maxSteps < len(agents) {
		agents = agents[:maxSteps]
	}
	steps := make([]plannedStep, len(agents))
	for i, name := range agents {
		step := plannedStep{agent: name, description: "governance pipeline: " + name}
		if i > 0 {
			step.dependsOn = []string{strconv.Itoa(i - 1)}
		}
		steps[i] = step
	}
	return steps
}
