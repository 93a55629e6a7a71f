package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// SaveAgentDefinition inserts def, or updates the row with the same id. An
// update changes description, config, is_active, parent_id and
// lifecycle_state; name and created_at keep their stored values. A new id
// reusing an existing name fails on the table's unique name constraint.
func (s *Store) SaveAgentDefinition(ctx context.Context, def *models.AgentDefinition) error {
	if def.ID == "" {
		def.ID = ids.New()
	}
	configJSON, err := marshalJSON(def.Config)
	if err != nil {
		return fmt.Errorf("marshaling agent definition config: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO agent_definitions (id, name, description, config, is_active, parent_id, lifecycle_state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     description = EXCLUDED.description,
		     config = EXCLUDED.config,
		     is_active = EXCLUDED.is_active,
		     parent_id = EXCLUDED.parent_id,
		     lifecycle_state = EXCLUDED.lifecycle_state`,
		def.ID, def.Name, def.Description, configJSON, def.IsActive, def.ParentID, def.LifecycleState, def.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting agent definition: %w", err)
	}
	return nil
}

// ListAgentDefinitions returns every known agent definition, active or not.
func (s *Store) ListAgentDefinitions(ctx context.Context) ([]*models.AgentDefinition, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, config, is_active, parent_id, lifecycle_state, created_at
		 FROM agent_definitions ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying agent definitions: %w", err)
	}
	defer rows.Close()

	var out []*models.AgentDefinition
	for rows.Next() {
		var def models.AgentDefinition
		var configRaw []byte
		if err := rows.Scan(&def.ID, &def.Name, &def.Description, &configRaw, &def.IsActive, &def.ParentID, &def.LifecycleState, &def.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning agent definition: %w", err)
		}
		if len(configRaw) > 0 {
			if err := json.Unmarshal(configRaw, &def.Config); err != nil {
				return nil, fmt.Errorf("unmarshaling agent definition config: %w", err)
			}
		}
		out = append(out, &def)
	}
	return out, rows.Err()
}
