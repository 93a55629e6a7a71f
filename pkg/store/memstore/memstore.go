// Package memstore implements store.Store entirely in memory. It backs unit
// tests and the reference CLI when no database is configured, mirroring the
// teacher's pattern of offering an in-process seam (NewClientFromEnt in
// pkg/database/client.go) alongside the durable Postgres implementation.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// Store is an in-memory implementation of store.Store. All operations are
// safe for concurrent use.
type Store struct {
	mu sync.Mutex

	messages    []models.Message
	items       []*models.MemoryItem
	agentRuns   map[string]*models.AgentRun
	runOrder    []string
	agentDefs   map[string]*models.AgentDefinition
	defOrder    []string
	events      []*models.Event

	diagnostics models.JSON
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		agentRuns: make(map[string]*models.AgentRun),
		agentDefs: make(map[string]*models.AgentDefinition),
	}
}

var _ store.Store = (*Store)(nil)

// StoreItem always appends a new memory item; it never updates in place.
func (s *Store) StoreItem(ctx context.Context, scope models.MemoryScope, typ models.MemoryType, key, content string, metadata models.JSON) (*models.MemoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &models.MemoryItem{
		ID:        ids.New(),
		Scope:     scope,
		Type:      typ,
		Key:       key,
		Content:   content,
		Metadata:  metadata.Clone(),
		CreatedAt: time.Now(),
	}
	s.items = append(s.items, item)
	return item, nil
}

// SearchItems returns items matching q, ordered by created_at descending.
func (s *Store) SearchItems(ctx context.Context, q store.ItemQuery) ([]*models.MemoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.MemoryItem
	for _, item := range s.items {
		if q.Scope != nil && item.Scope != *q.Scope {
			continue
		}
		if q.Type != nil && item.Type != *q.Type {
			continue
		}
		if q.ContentSubstring != "" && !strings.Contains(strings.ToLower(item.Content), strings.ToLower(q.ContentSubstring)) {
			continue
		}
		matched = append(matched, item)
	}
	sortItemsDesc(matched)
	return limitItems(matched, q.Limit), nil
}

// FindItemsByKey returns items with the given key, newest first.
func (s *Store) FindItemsByKey(ctx context.Context, key string, scope *models.MemoryScope, limit int) ([]*models.MemoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.MemoryItem
	for _, item := range s.items {
		if item.Key != key {
			continue
		}
		if scope != nil && item.Scope != *scope {
			continue
		}
		matched = append(matched, item)
	}
	sortItemsDesc(matched)
	return limitItems(matched, limit), nil
}

// LoadItemContent returns the content of the most recently created item
// matching key/scope/type, or ("", false, nil) if none exists.
func (s *Store) LoadItemContent(ctx context.Context, key string, scope *models.MemoryScope, typ *models.MemoryType) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.MemoryItem
	for _, item := range s.items {
		if item.Key != key {
			continue
		}
		if scope != nil && item.Scope != *scope {
			continue
		}
		if typ != nil && item.Type != *typ {
			continue
		}
		if latest == nil || item.CreatedAt.After(latest.CreatedAt) {
			latest = item
		}
	}
	if latest == nil {
		return "", false, nil
	}
	return latest.Content, true, nil
}

// LogMessage appends msg in insertion order.
func (s *Store) LogMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = ids.New()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

// GetRecentMessages returns the last `limit` messages for conversationID, in
// chronological order.
func (s *Store) GetRecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Message
	for _, m := range s.messages {
		if conversationID != "" && m.ConversationID != conversationID {
			continue
		}
		matched = append(matched, m)
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// LogAgentRun upserts run by id.
func (s *Store) LogAgentRun(ctx context.Context, run *models.AgentRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = ids.New()
	}
	if _, exists := s.agentRuns[run.ID]; !exists {
		s.runOrder = append(s.runOrder, run.ID)
	}
	s.agentRuns[run.ID] = run
	return nil
}

// GetRecentAgentRuns returns the last `limit` runs in chronological order.
func (s *Store) GetRecentAgentRuns(ctx context.Context, limit int) ([]*models.AgentRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := s.runOrder
	if limit > 0 && len(order) > limit {
		order = order[len(order)-limit:]
	}
	out := make([]*models.AgentRun, 0, len(order))
	for _, id := range order {
		out = append(out, s.agentRuns[id])
	}
	return out, nil
}

// SaveAgentDefinition inserts or updates def by id. Mutable fields on update
// are description, config, is_active, parent_id, lifecycle_state — name and
// created_at never change. Name uniqueness is enforced across distinct ids.
func (s *Store) SaveAgentDefinition(ctx context.Context, def *models.AgentDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if def.ID == "" {
		def.ID = ids.New()
	}

	existing, exists := s.agentDefs[def.ID]
	for id, other := range s.agentDefs {
		if id != def.ID && other.Name == def.Name {
			return store.ErrDuplicateAgentName
		}
	}

	if !exists {
		if def.CreatedAt.IsZero() {
			def.CreatedAt = time.Now()
		}
		s.agentDefs[def.ID] = def
		s.defOrder = append(s.defOrder, def.ID)
		return nil
	}

	existing.Description = def.Description
	existing.Config = def.Config.Clone()
	existing.IsActive = def.IsActive
	existing.ParentID = def.ParentID
	existing.LifecycleState = def.LifecycleState
	return nil
}

// ListAgentDefinitions returns all definitions in insertion order.
func (s *Store) ListAgentDefinitions(ctx context.Context) ([]*models.AgentDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.AgentDefinition, 0, len(s.defOrder))
	for _, id := range s.defOrder {
		out = append(out, s.agentDefs[id])
	}
	return out, nil
}

// LogEvent appends a new event.
func (s *Store) LogEvent(ctx context.Context, typ models.EventType, correlationID string, payload models.JSON) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &models.Event{
		ID:            ids.New(),
		Type:          typ,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
		Payload:       payload.Clone(),
	}
	s.events = append(s.events, ev)
	return ev, nil
}

// GetEvents returns events for correlationID (or all events if empty), in
// chronological order.
func (s *Store) GetEvents(ctx context.Context, correlationID string, limit int) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Event
	for _, ev := range s.events {
		if correlationID != "" && ev.CorrelationID != correlationID {
			continue
		}
		matched = append(matched, ev)
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:min(limit, len(matched))]
	}
	return matched, nil
}

// SetDiagnostics seeds the last-diagnostics payload (test/ops helper —
// pkg/agents.DiagnosticsAgent otherwise produces it through a regular
// diagnostic_alert memory item write).
func (s *Store) SetDiagnostics(payload models.JSON) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = payload.Clone()
}

// GetLastDiagnostics returns the last recorded diagnostics payload. A
// directly seeded payload (SetDiagnostics) takes precedence; otherwise it
// falls back to parsing the most recent diagnostic_alert memory item,
// mirroring the Postgres store so a DiagnosticsAgent run behaves
// identically against either backend.
func (s *Store) GetLastDiagnostics(ctx context.Context) (models.JSON, bool, error) {
	s.mu.Lock()
	seeded := s.diagnostics
	s.mu.Unlock()
	if seeded != nil {
		return seeded.Clone(), true, nil
	}

	scope := models.ScopeGlobal
	typ := models.TypeProcedural
	content, ok, err := s.LoadItemContent(ctx, models.MemoryKeyDiagnosticAlert, &scope, &typ)
	if err != nil || !ok {
		return nil, false, err
	}

	var payload models.JSON
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, false, fmt.Errorf("parsing diagnostics content: %w", err)
	}
	return payload, true, nil
}

// GetAgentMetricsFromDiagnostics projects per-agent {failure_rate,
// total_runs, avg_duration, global_avg_duration} from the last diagnostics
// payload. The payload is expected to carry a "per_agent" map keyed by
// agent name with "total_runs", "failure_rate" and "avg_duration" fields,
// and a top-level "global_avg_duration".
func (s *Store) GetAgentMetricsFromDiagnostics(ctx context.Context) (map[string]store.AgentMetrics, error) {
	diag, ok, err := s.GetLastDiagnostics(ctx)
	if err != nil || !ok {
		return nil, err
	}

	globalAvg, _ := diag["global_avg_duration"].(float64)

	perAgent, _ := diag["per_agent"].(map[string]any)
	out := make(map[string]store.AgentMetrics, len(perAgent))
	for name, raw := range perAgent {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		metrics := store.AgentMetrics{
			AgentName:         name,
			GlobalAvgDuration: globalAvg,
		}
		if v, ok := fields["total_runs"].(int); ok {
			metrics.TotalRuns = v
		} else if v, ok := fields["total_runs"].(float64); ok {
			metrics.TotalRuns = int(v)
		}
		if v, ok := fields["failure_rate"].(float64); ok {
			metrics.FailureRate = v
		}
		if v, ok := fields["avg_duration"].(float64); ok {
			metrics.AvgDuration = v
		}
		out[name] = metrics
	}
	return out, nil
}

func sortItemsDesc(items []*models.MemoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func limitItems(items []*models.MemoryItem, limit int) []*models.MemoryItem {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
