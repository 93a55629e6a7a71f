package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ludwigkubler/cognitive-os/pkg/ids"
	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// StoreItem always inserts a new row; memory items are never updated in
// place, preserving full history per key.
func (s *Store) StoreItem(ctx context.Context, scope models.MemoryScope, typ models.MemoryType, key, content string, metadata models.JSON) (*models.MemoryItem, error) {
	item := &models.MemoryItem{
		ID:        ids.New(),
		Scope:     scope,
		Type:      typ,
		Key:       key,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	metaJSON, err := marshalJSON(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshaling memory item metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO memory_items (id, scope, type, key, content, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Scope, item.Type, item.Key, item.Content, metaJSON, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting memory item: %w", err)
	}
	return item, nil
}

// SearchItems returns items matching q, ordered by created_at descending.
func (s *Store) SearchItems(ctx context.Context, q store.ItemQuery) ([]*models.MemoryItem, error) {
	sql := `SELECT id, scope, type, key, content, metadata, created_at FROM memory_items WHERE 1=1`
	var args []any
	n := 0

	addArg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if q.Scope != nil {
		sql += " AND scope = " + addArg(*q.Scope)
	}
	if q.Type != nil {
		sql += " AND type = " + addArg(*q.Type)
	}
	if q.ContentSubstring != "" {
		sql += " AND content ILIKE " + addArg("%"+q.ContentSubstring+"%")
	}
	sql += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		sql += " LIMIT " + addArg(q.Limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying memory items: %w", err)
	}
	defer rows.Close()
	return scanMemoryItems(rows)
}

// FindItemsByKey returns items with the given key, newest first.
func (s *Store) FindItemsByKey(ctx context.Context, key string, scope *models.MemoryScope, limit int) ([]*models.MemoryItem, error) {
	q := store.ItemQuery{Scope: scope, Limit: limit}
	sql := `SELECT id, scope, type, key, content, metadata, created_at FROM memory_items WHERE key = $1`
	args := []any{key}
	if q.Scope != nil {
		sql += " AND scope = $2"
		args = append(args, *q.Scope)
	}
	sql += " ORDER BY created_at DESC"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying memory items by key: %w", err)
	}
	defer rows.Close()
	return scanMemoryItems(rows)
}

// LoadItemContent returns the content of the most recently created item
// matching key/scope/type, or ("", false, nil) if none exists.
func (s *Store) LoadItemContent(ctx context.Context, key string, scope *models.MemoryScope, typ *models.MemoryType) (string, bool, error) {
	sql := `SELECT content FROM memory_items WHERE key = $1`
	args := []any{key}
	if scope != nil {
		args = append(args, *scope)
		sql += fmt.Sprintf(" AND scope = $%d", len(args))
	}
	if typ != nil {
		args = append(args, *typ)
		sql += fmt.Sprintf(" AND type = $%d", len(args))
	}
	sql += " ORDER BY created_at DESC LIMIT 1"

	var content string
	err := s.pool.QueryRow(ctx, sql, args...).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("loading memory item content: %w", err)
	}
	return content, true, nil
}

func scanMemoryItems(rows pgx.Rows) ([]*models.MemoryItem, error) {
	var out []*models.MemoryItem
	for rows.Next() {
		var item models.MemoryItem
		var metaRaw []byte
		if err := rows.Scan(&item.ID, &item.Scope, &item.Type, &item.Key, &item.Content, &metaRaw, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning memory item: %w", err)
		}
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &item.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling memory item metadata: %w", err)
			}
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func marshalJSON(v models.JSON) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func unmarshalJSONInto(raw []byte, dst *models.JSON) error {
	return json.Unmarshal(raw, dst)
}
