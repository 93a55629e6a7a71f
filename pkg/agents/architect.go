package agents

import (
	"context"
	"strings"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// ArchitectAgent drafts a new AgentDefinition from the triggering request,
// the first stage of both the "nuovo agente" heuristic rule and the fixed
// governance pipeline. The definition always starts in lifecycle_state
// draft, is_active false — promotion is the curator's job.
type ArchitectAgent struct{}

func (a *ArchitectAgent) Run(ctx context.Context, req agent.RunRequest) *models.AgentRun {
	started := time.Now()
	if req.Memory == nil {
		return failure(req, started, errNoMemoryStore)
	}

	name, _ := req.InputPayload["agent_name"].(string)
	if name == "" {
		name = "draft_agent_" + ids.New()[:8]
	}
	description := req.Context.LastUserMessage()

	agentType, _ := req.InputPayload["type"].(string)
	if agentType != "python" && agentType != "r" {
		agentType = "python"
	}

	config := models.JSON{
		"type":                   agentType,
		"system_prompt_template": "You are " + name + ". " + description,
	}
	if agentType == "python" {
		config["module"] = "agents." + name
		config["class_name"] = camelCase(name)
	} else {
		config["r_script_path"] = "r_agents/" + name + ".R"
	}

	def := &models.AgentDefinition{
		ID:             ids.New(),
		Name:           name,
		Description:    description,
		Config:         config,
		IsActive:       false,
		LifecycleState: models.LifecycleDraft,
		CreatedAt:      time.Now(),
	}
	if parentID, ok := req.InputPayload["parent_id"].(string); ok {
		def.ParentID = parentID
	}

	if err := req.Memory.SaveAgentDefinition(ctx, def); err != nil {
		return failure(req, started, err)
	}

	return &models.AgentRun{
		AgentName:    req.AgentName,
		InputPayload: req.InputPayload,
		OutputPayload: models.JSON{
			models.OutputKeyUserVisibleMessage: "I've drafted a new agent definition: " + name + ".",
			"agent_definition_id":              def.ID,
			"agent_definition_name":            def.Name,
		},
		Status:     models.RunStatusSuccess,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
}

// camelCase turns a snake_case agent name into a Python-style class name,
// e.g. "churn_predictor" -> "ChurnPredictor".
func camelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
