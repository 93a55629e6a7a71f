// Package store defines the persistence contract: five logical tables
// (messages, memory_items, agent_runs, agent_definitions, events) behind a
// single Store interface, plus the derived diagnostics queries the
// governance pipeline depends on. See pkg/store/postgres for the durable
// implementation and pkg/store/memstore for the in-memory one used by unit
// tests and offline runs.
package store

import (
	"context"
	"errors"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// ErrDuplicateAgentName indicates a SaveAgentDefinition insert collided with
// an existing definition's name — name uniqueness is enforced here, at the
// persistence layer.
var ErrDuplicateAgentName = errors.New("agent definition name already exists")

// AgentMetrics is a per-agent projection derived from recorded diagnostics,
// consumed by governance-mode detection and the curator's metric-driven
// auto-policy.
type AgentMetrics struct {
	AgentName          string
	TotalRuns          int
	FailureRate        float64
	AvgDuration        float64
	GlobalAvgDuration  float64
}

// Store is the single persistence contract used by every component. Writes
// inside a single operation are atomic; readers always see a consistent row
// set. Introducing a new agent_definitions column must default
// lifecycle_state to draft for pre-existing rows.
type Store interface {
	// Memory items. StoreItem always inserts a new row — content is
	// versioned by insertion order, never updated in place.
	StoreItem(ctx context.Context, scope models.MemoryScope, typ models.MemoryType, key, content string, metadata models.JSON) (*models.MemoryItem, error)
	SearchItems(ctx context.Context, q ItemQuery) ([]*models.MemoryItem, error)
	FindItemsByKey(ctx context.Context, key string, scope *models.MemoryScope, limit int) ([]*models.MemoryItem, error)
	LoadItemContent(ctx context.Context, key string, scope *models.MemoryScope, typ *models.MemoryType) (string, bool, error)

	// Messages.
	LogMessage(ctx context.Context, msg models.Message) (*models.Message, error)
	GetRecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)

	// Agent runs.
	LogAgentRun(ctx context.Context, run *models.AgentRun) error
	GetRecentAgentRuns(ctx context.Context, limit int) ([]*models.AgentRun, error)

	// Agent definitions.
	SaveAgentDefinition(ctx context.Context, def *models.AgentDefinition) error
	ListAgentDefinitions(ctx context.Context) ([]*models.AgentDefinition, error)

	// Events.
	LogEvent(ctx context.Context, typ models.EventType, correlationID string, payload models.JSON) (*models.Event, error)
	GetEvents(ctx context.Context, correlationID string, limit int) ([]*models.Event, error)

	// Derived queries.
	GetLastDiagnostics(ctx context.Context) (models.JSON, bool, error)
	GetAgentMetricsFromDiagnostics(ctx context.Context) (map[string]AgentMetrics, error)
}

// ItemQuery filters SearchItems. Zero-valued fields are wildcards; results
// are ordered by created_at descending.
type ItemQuery struct {
	Scope            *models.MemoryScope
	Type             *models.MemoryType
	ContentSubstring string
	Limit            int
}
