// Package orchestrator drives a single conversation turn end to end: decay
// the emotional state, log the incoming message, build a plan, dispatch its
// tasks to completion honoring dependencies/retries/stop-for-input/budget,
// and return the accumulated visible text.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/agent"
	"github.com/ludwigkubler/cognitive-os/pkg/emotion"
	"github.com/ludwigkubler/cognitive-os/pkg/events"
	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/planner"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// FallbackMessage is returned when a turn produces no visible text at all —
// either the plan failed to build or every task ran silently.
const FallbackMessage = "I wasn't able to make progress on that — could you rephrase or give me a bit more detail?"

// DefaultMaxTasksPerTurn is the coarse per-turn work budget absent explicit
// configuration.
const DefaultMaxTasksPerTurn = 10

// Orchestrator wires together the registry, planner, store and LLM provider
// to answer HandleUserMessage calls.
type Orchestrator struct {
	Registry        *agent.Registry
	Planner         *planner.Planner
	Store           store.Store
	LLM             llmprovider.Provider
	MaxTasksPerTurn int

	// Events fans newly logged events out to live WebSocket observers. Nil
	// by default (Publish is then a no-op) — entirely opt-in. When set,
	// logEvent publishes synchronously, so a slow subscriber can delay the
	// turn by up to the publisher's write timeout per send.
	Events *events.Publisher
}

// New returns an Orchestrator with the spec's default per-turn task budget.
func New(registry *agent.Registry, p *planner.Planner, s store.Store, llm llmprovider.Provider) *Orchestrator {
	return &Orchestrator{
		Registry:        registry,
		Planner:         p,
		Store:           s,
		LLM:             llm,
		MaxTasksPerTurn: DefaultMaxTasksPerTurn,
	}
}

// HandleUserMessage runs one full turn for conversationID/userID given the
// raw user text, and returns the assistant-visible response string.
// Persistence and planning failures are logged and degrade to the fixed
// fallback message rather than aborting the turn; the error return is
// reserved for a nil/misconfigured Store, which makes the turn impossible
// to run at all.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, conversationID, userID, text string) (string, error) {
	if o.Store == nil {
		return "", fmt.Errorf("orchestrator: no store configured")
	}
	log := slog.With("conversation_id", conversationID, "correlation_id", conversationID)

	conv := o.loadConversation(ctx, conversationID, userID)
	conv.EmotionalState = emotion.Decay(conv.EmotionalState)

	userMsg := models.Message{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        text,
		Timestamp:      time.Now(),
	}
	if _, err := o.Store.LogMessage(ctx, userMsg); err != nil {
		log.Error("failed to persist user message", "error", err)
	}
	conv.Messages = append(conv.Messages, userMsg)

	o.logEvent(ctx, models.EventRequestReceived, conversationID, models.JSON{"text": text}, log)

	plan := o.buildPlan(ctx, conv, log)
	conv.Plan = plan

	visible := o.dispatch(ctx, conv, log)
	if visible == "" {
		visible = FallbackMessage
	}

	assistantMsg := models.Message{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        visible,
		Timestamp:      time.Now(),
	}
	if _, err := o.Store.LogMessage(ctx, assistantMsg); err != nil {
		log.Error("failed to persist assistant message", "error", err)
	}

	o.saveEmotionalSnapshot(ctx, conv, log)

	return visible, nil
}

// loadConversation reconstructs a ConversationContext from the message log,
// restoring the emotional state from the conversation's last snapshot (an
// auxiliary write per turn — see saveEmotionalSnapshot) so Decay's
// inter-turn semantics and the frustration-driven governance trigger are
// reachable across real, separate HandleUserMessage calls, not just within
// one hand-held *models.ConversationContext.
func (o *Orchestrator) loadConversation(ctx context.Context, conversationID, userID string) *models.ConversationContext {
	msgs, err := o.Store.GetRecentMessages(ctx, conversationID, 50)
	if err != nil {
		slog.Error("failed to load recent messages", "conversation_id", conversationID, "error", err)
	}
	return &models.ConversationContext{
		ID:             conversationID,
		UserID:         userID,
		Messages:       msgs,
		EmotionalState: o.loadEmotionalState(ctx, conversationID),
		CorrelationID:  conversationID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// loadEmotionalState returns the conversation's last persisted emotional
// snapshot, or the documented default if none exists yet or it fails to
// parse.
func (o *Orchestrator) loadEmotionalState(ctx context.Context, conversationID string) models.EmotionalState {
	scope := models.ScopeConversation
	typ := models.TypeProcedural
	key := models.EmotionalSnapshotKey(conversationID)
	content, found, err := o.Store.LoadItemContent(ctx, key, &scope, &typ)
	if err != nil || !found {
		return models.NewEmotionalState()
	}

	var state models.EmotionalState
	if err := json.Unmarshal([]byte(content), &state); err != nil {
		slog.Error("failed to parse emotional snapshot, using default", "conversation_id", conversationID, "error", err)
		return models.NewEmotionalState()
	}
	return state
}

// saveEmotionalSnapshot writes conv's current emotional state as a new
// conversation-scoped memory item, so the next HandleUserMessage call for
// this conversation picks up where this turn left off. This is an
// auxiliary write: failures are logged and never fail the turn.
func (o *Orchestrator) saveEmotionalSnapshot(ctx context.Context, conv *models.ConversationContext, log *slog.Logger) {
	content, err := json.Marshal(conv.EmotionalState)
	if err != nil {
		log.Error("failed to encode emotional snapshot", "error", err)
		return
	}
	key := models.EmotionalSnapshotKey(conv.ID)
	if _, err := o.Store.StoreItem(ctx, models.ScopeConversation, models.TypeProcedural, key, string(content), nil); err != nil {
		log.Error("failed to persist emotional snapshot", "error", err)
	}
}

func (o *Orchestrator) buildPlan(ctx context.Context, conv *models.ConversationContext, log *slog.Logger) *models.Plan {
	metrics, err := o.Store.GetAgentMetricsFromDiagnostics(ctx)
	if err != nil {
		log.Warn("failed to load agent metrics for governance detection", "error", err)
	}

	plan := o.Planner.Plan(ctx, planner.Request{
		Conversation: conv,
		Store:        o.Store,
		LLM:          o.LLM,
		Metrics:      metrics,
	})

	payload := models.JSON{"task_count": len(plan.Tasks), "source": string(plan.Metadata.Source)}
	if len(plan.Tasks) == 0 {
		payload["warning"] = "planner produced an empty plan"
	}
	o.logEvent(ctx, models.EventPlanCreated, conv.CorrelationID, payload, log)
	return plan
}

// dispatch runs the per-turn loop: pick the next ready task, execute it,
// concatenate visible output, honor stop-for-input, stop after
// MaxTasksPerTurn iterations regardless of remaining work.
func (o *Orchestrator) dispatch(ctx context.Context, conv *models.ConversationContext, log *slog.Logger) string {
	maxTasks := o.MaxTasksPerTurn
	if maxTasks <= 0 {
		maxTasks = DefaultMaxTasksPerTurn
	}

	var visible []string
	for i := 0; i < maxTasks; i++ {
		task := conv.Plan.NextReadyTask()
		if task == nil {
			break
		}

		o.logEvent(ctx, models.EventTaskAssigned, conv.CorrelationID, models.JSON{"task_id": task.ID, "agent_name": task.AgentName}, log)

		fragment, stop := o.executeTask(ctx, conv, task, log)
		if fragment != "" {
			visible = append(visible, fragment)
		}
		if stop {
			break
		}
	}
	return strings.Join(visible, "\n")
}

// executeTask runs a single task to a terminal or retry-pending state and
// returns its user-visible fragment (if any) plus whether the turn should
// stop for user input.
func (o *Orchestrator) executeTask(ctx context.Context, conv *models.ConversationContext, task *models.Task, log *slog.Logger) (string, bool) {
	task.Status = models.TaskStatusRunning
	task.UpdatedAt = time.Now()

	run := o.Registry.Run(ctx, agent.RunRequest{
		AgentName:      task.AgentName,
		InputPayload:   task.InputPayload,
		Context:        conv,
		Memory:         o.Store,
		LLM:            o.LLM,
		EmotionalState: conv.EmotionalState,
	})

	next, delta := emotion.UpdateOnAgentRun(conv.EmotionalState, run.Status, run.AgentName)
	run.EmotionDelta = delta
	conv.EmotionalState = next

	if err := o.Store.LogAgentRun(ctx, run); err != nil {
		log.Error("failed to persist agent run", "agent", task.AgentName, "error", err)
	}

	eventType := models.EventAgentRunCompleted
	if run.Status == models.RunStatusFailure {
		eventType = models.EventAgentRunFailed
	}
	o.logEvent(ctx, eventType, conv.CorrelationID, models.JSON{"task_id": task.ID, "run_id": run.ID}, log)

	if run.Status == models.RunStatusSuccess {
		task.Status = models.TaskStatusDone
		task.Result = run.OutputPayload
		task.UpdatedAt = time.Now()
		return visibleFragment(run), stopForInput(run)
	}

	return o.handleTaskFailure(task, run), false
}

// handleTaskFailure applies the retry-then-give-up policy: revert to
// pending with retry_count incremented while under budget, otherwise mark
// error and synthesize a visible fragment if the agent didn't supply one.
func (o *Orchestrator) handleTaskFailure(task *models.Task, run *models.AgentRun) string {
	errText := run.OutputPayload.String(models.OutputKeyError)
	if errText == "" {
		errText = "unknown error"
	}

	if task.RetryCount < task.MaxRetries {
		task.RetryCount++
		task.Status = models.TaskStatusPending
		task.UpdatedAt = time.Now()
		return visibleFragment(run)
	}

	task.Status = models.TaskStatusError
	task.Error = errText
	task.UpdatedAt = time.Now()

	fragment := visibleFragment(run)
	if fragment == "" {
		fragment = fmt.Sprintf("[ERROR in agent '%s'] %s", task.AgentName, errText)
	}
	return fragment
}

// logEvent persists an event and, if an Events publisher is wired in, fans
// it out to live WebSocket observers. Logging failures are non-fatal —
// they never block or fail the turn.
func (o *Orchestrator) logEvent(ctx context.Context, typ models.EventType, correlationID string, payload models.JSON, log *slog.Logger) {
	evt, err := o.Store.LogEvent(ctx, typ, correlationID, payload)
	if err != nil {
		log.Warn("failed to log event", "type", typ, "error", err)
		return
	}
	o.Events.Publish(evt)
}

func visibleFragment(run *models.AgentRun) string {
	if run == nil {
		return ""
	}
	return run.OutputPayload.String(models.OutputKeyUserVisibleMessage)
}

func stopForInput(run *models.AgentRun) bool {
	if run == nil {
		return false
	}
	return run.OutputPayload.Bool(models.OutputKeyStopForUserInput)
}
