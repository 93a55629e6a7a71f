// Package planner builds a fresh Plan for each user turn by trying, in
// priority order: a forced or detected governance mode, an explicit
// social-command override (dispatched immediately, ahead of the intake
// gate — it is not analysis planning), an intake check for a requirements
// sheet, a registered model-assisted meta-planner, and finally a
// deterministic keyword-table fallback.
package planner

import (
	"context"
	"strconv"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// DefaultMaxGovernanceSteps bounds the governance pipeline's length when the
// caller does not specify one.
const DefaultMaxGovernanceSteps = 6

// DefaultTaskMaxRetries is applied to any planned step that does not
// specify its own retry budget, matching
// config.OrchestratorConfig.DefaultMaxRetries's documented default.
const DefaultTaskMaxRetries = 1

// MetaPlannerAgentName is the well-known registry name the planner looks
// for before falling back to the heuristic table.
const MetaPlannerAgentName = "meta_planner_agent"

// Planner builds a Plan for a single turn.
type Planner struct {
	Registry           *agent.Registry
	MaxGovernanceSteps int
}

// New returns a Planner bound to registry.
func New(registry *agent.Registry) *Planner {
	return &Planner{Registry: registry, MaxGovernanceSteps: DefaultMaxGovernanceSteps}
}

// Request bundles everything Plan needs beyond the conversation itself.
type Request struct {
	Conversation          *models.ConversationContext
	Store                 store.Store
	LLM                   llmprovider.Provider
	ForceGovernance       bool
	Metrics               map[string]store.AgentMetrics
	SecurityFlaggedAgents []string
}

// Plan selects a strategy and returns a fresh, non-nil Plan. A meta-planner
// reply with an empty step list yields a Plan with no tasks; Plan sets no
// warning of its own — the orchestrator adds one to the PLAN_CREATED
// payload and answers with the fixed fallback message.
func (p *Planner) Plan(ctx context.Context, req Request) *models.Plan {
	lastMessage := req.Conversation.LastUserMessage()

	governanceMode, reason := detectGovernanceMode(lastMessage, req.ForceGovernance, req.Conversation.EmotionalState.Frustration, req.Metrics)
	if governanceMode {
		targets := governanceTargets(req.Metrics, req.SecurityFlaggedAgents)
		steps := buildGovernancePlan(p.maxGovernanceSteps())
		return buildPlan(steps, models.PlanMetadata{
			Source:            models.PlanSourceMetaRouter,
			GovernanceMode:    true,
			GovernanceReason:  reason,
			GovernanceTargets: targets,
		})
	}

	if agentName := matchExplicitOverride(lastMessage); agentName != "" {
		steps := []plannedStep{{agent: agentName, description: "explicit social-command override"}}
		return buildPlan(steps, models.PlanMetadata{Source: models.PlanSourceHeuristic, Notes: "explicit override"})
	}

	if !governanceMode {
		if plan := p.intakeGate(ctx, req); plan != nil {
			return plan
		}
	}

	if p.Registry != nil {
		if _, ok := p.Registry.Get(MetaPlannerAgentName); ok {
			if plan := p.runMetaPlanner(ctx, req); plan != nil {
				return plan
			}
		}
	}

	steps := heuristicFallback(lastMessage)
	return buildPlan(steps, models.PlanMetadata{Source: models.PlanSourceHeuristic})
}

func (p *Planner) maxGovernanceSteps() int {
	if p.MaxGovernanceSteps > 0 {
		return p.MaxGovernanceSteps
	}
	return DefaultMaxGovernanceSteps
}

// intakeGate requires a requirements_sheet procedural memory to exist
// (keyed and scoped to the conversation; no project-scoped sheet is
// consulted) before any non-governance
// analysis planning proceeds; absent that, the only plan this turn is
// capturing requirements. It runs after the explicit-override check, since
// a social short-circuit is not analysis planning and must still dispatch
// immediately even with no requirements sheet on file.
func (p *Planner) intakeGate(ctx context.Context, req Request) *models.Plan {
	if req.Store == nil {
		return nil
	}
	scope := models.ScopeConversation
	typ := models.TypeProcedural
	key := models.RequirementsSheetKey(req.Conversation.ID)
	_, found, err := req.Store.LoadItemContent(ctx, key, &scope, &typ)
	if err != nil || found {
		return nil
	}

	steps := []plannedStep{{agent: "requirements_agent", description: "capture structured requirements before analysis planning"}}
	return buildPlan(steps, models.PlanMetadata{Source: models.PlanSourceHeuristic, Notes: "intake gate: no requirements sheet on file"})
}

// runMetaPlanner delegates to the registered meta-planner agent and converts
// its output into a Plan. A ParseFailure (non-conforming output) returns
// nil, signalling the caller to fall through to the heuristic table.
func (p *Planner) runMetaPlanner(ctx context.Context, req Request) *models.Plan {
	run := p.Registry.Run(ctx, agent.RunRequest{
		AgentName: MetaPlannerAgentName,
		InputPayload: models.JSON{
			"user_text": req.Conversation.LastUserMessage(),
		},
		Context:        req.Conversation,
		Memory:         req.Store,
		LLM:            req.LLM,
		EmotionalState: req.Conversation.EmotionalState,
	})
	if run == nil || run.Status != models.RunStatusSuccess {
		return nil
	}

	steps, meta, err := parseMetaPlannerOutput(run.OutputPayload)
	if err != nil {
		return nil
	}
	meta.Source = models.PlanSourceLLM

	planned := make([]plannedStep, len(steps))
	for i, s := range steps {
		planned[i] = plannedStep{agent: s.Agent, description: s.Description, input: s.Input, ref: s.StepID, dependsOn: s.DependsOn}
	}
	plan := buildPlan(planned, meta)
	for i, s := range steps {
		if s.MaxRetries > 0 {
			plan.Tasks[i].MaxRetries = s.MaxRetries
		}
		plan.Tasks[i].CostEstimate = s.CostEstimate
		plan.Tasks[i].Budget = s.Budget
	}
	return plan
}

// buildPlan assigns ids to each plannedStep and wraps them in a Plan.
// dependsOn entries reference another step's ref within the same batch
// (heuristic rules use the step's own index, "0", "1", ...; a meta-planner
// may supply its own step ids instead) — both resolve through the same
// ref-to-task-id map built here.
func buildPlan(steps []plannedStep, meta models.PlanMetadata) *models.Plan {
	now := time.Now()
	tasks := make([]*models.Task, len(steps))
	refToID := make(map[string]string, len(steps))
	for i, s := range steps {
		tasks[i] = &models.Task{
			ID:           ids.New(),
			Description:  s.description,
			AgentName:    s.agent,
			InputPayload: s.input,
			Status:       models.TaskStatusPending,
			MaxRetries:   DefaultTaskMaxRetries,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		ref := s.ref
		if ref == "" {
			ref = strconv.Itoa(i)
		}
		refToID[ref] = tasks[i].ID
	}
	for i, s := range steps {
		for _, dep := range s.dependsOn {
			if depID, ok := refToID[dep]; ok {
				tasks[i].DependsOn = append(tasks[i].DependsOn, depID)
			}
		}
	}

	return &models.Plan{
		ID:        ids.New(),
		Tasks:     tasks,
		Metadata:  meta,
		CreatedAt: now,
	}
}
