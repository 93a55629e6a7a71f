package postgres

import (
	"context"
	"fmt"

	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
)

// LogEvent appends an immutable event to the correlation log.
func (s *Store) LogEvent(ctx context.Context, typ models.EventType, correlationID string, payload models.JSON) (*models.Event, error) {
	payloadJSON, err := marshalJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling event payload: %w", err)
	}

	ev := &models.Event{
		ID:            ids.New(),
		Type:          typ,
		CorrelationID: correlationID,
		Payload:       payload,
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO events (id, type, correlation_id, payload)
		 VALUES ($1, $2, $3, $4) RETURNING timestamp`,
		ev.ID, ev.Type, ev.CorrelationID, payloadJSON,
	).Scan(&ev.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return ev, nil
}

// GetEvents returns events for correlationID (or all events if empty), in
// chronological order.
func (s *Store) GetEvents(ctx context.Context, correlationID string, limit int) ([]*models.Event, error) {
	sql := `SELECT id, type, correlation_id, timestamp, payload FROM events`
	var args []any
	if correlationID != "" {
		sql += ` WHERE correlation_id = $1`
		args = append(args, correlationID)
	}
	sql += ` ORDER BY timestamp ASC`
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []*models.Event
	for rows.Next() {
		var ev models.Event
		var payloadRaw []byte
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.CorrelationID, &ev.Timestamp, &payloadRaw); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if len(payloadRaw) > 0 {
			if err := unmarshalJSONInto(payloadRaw, &ev.Payload); err != nil {
				return nil, fmt.Errorf("unmarshaling event payload: %w", err)
			}
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
