package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// LogAgentRun persists the outcome of a single agent invocation.
func (s *Store) LogAgentRun(ctx context.Context, run *models.AgentRun) error {
	if run.ID == "" {
		run.ID = ids.New()
	}
	inputJSON, err := marshalJSON(run.InputPayload)
	if err != nil {
		return fmt.Errorf("marshaling agent run input: %w", err)
	}
	outputJSON, err := marshalJSON(run.OutputPayload)
	if err != nil {
		return fmt.Errorf("marshaling agent run output: %w", err)
	}
	deltaJSON, err := json.Marshal(run.EmotionDelta)
	if err != nil {
		return fmt.Errorf("marshaling agent run emotion delta: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO agent_runs (id, agent_name, input_payload, output_payload, status, emotion_delta, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.AgentName, inputJSON, outputJSON, run.Status, deltaJSON, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting agent run: %w", err)
	}
	return nil
}

// GetRecentAgentRuns returns up to limit runs across all agents, newest
// first, the feed the governance pipeline's diagnostics derive from.
func (s *Store) GetRecentAgentRuns(ctx context.Context, limit int) ([]*models.AgentRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, agent_name, input_payload, output_payload, status, emotion_delta, started_at, finished_at
		 FROM agent_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent agent runs: %w", err)
	}
	defer rows.Close()

	var out []*models.AgentRun
	for rows.Next() {
		var run models.AgentRun
		var inputRaw, outputRaw, deltaRaw []byte
		if err := rows.Scan(&run.ID, &run.AgentName, &inputRaw, &outputRaw, &run.Status, &deltaRaw, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning agent run: %w", err)
		}
		if len(inputRaw) > 0 {
			if err := json.Unmarshal(inputRaw, &run.InputPayload); err != nil {
				return nil, fmt.Errorf("unmarshaling agent run input: %w", err)
			}
		}
		if len(outputRaw) > 0 {
			if err := json.Unmarshal(outputRaw, &run.OutputPayload); err != nil {
				return nil, fmt.Errorf("unmarshaling agent run output: %w", err)
			}
		}
		if len(deltaRaw) > 0 {
			if err := json.Unmarshal(deltaRaw, &run.EmotionDelta); err != nil {
				return nil, fmt.Errorf("unmarshaling agent run emotion delta: %w", err)
			}
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}
