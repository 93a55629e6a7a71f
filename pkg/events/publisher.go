package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ludwigkubler/cognitive-os/pkg/models"
	"github.com/ludwigkubler/cognitive-os/pkg/store"
)

// Publisher bridges the durable event log to live WebSocket observers. The
// orchestrator holds an optional *Publisher and calls Publish after every
// store.Store.LogEvent call; a nil *Publisher (the default) makes Publish a
// no-op, so wiring this in is entirely opt-in.
type Publisher struct {
	Manager *ConnectionManager
}

// NewPublisher builds a Publisher backed by s, with a fresh ConnectionManager
// whose catchup queries read from s.
func NewPublisher(s store.Store, writeTimeout time.Duration) *Publisher {
	return &Publisher{Manager: NewConnectionManager(&storeCatchupAdapter{Store: s}, writeTimeout)}
}

// Publish broadcasts evt to every connection subscribed to its conversation
// (the event's CorrelationID). Safe to call with a nil Publisher.
func (p *Publisher) Publish(evt *models.Event) {
	if p == nil || p.Manager == nil || evt == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		slog.Warn("events: failed to marshal event for broadcast", "event_id", evt.ID, "error", err)
		return
	}
	p.Manager.Broadcast(evt.CorrelationID, payload)
}

// storeCatchupAdapter adapts store.Store.GetEvents to the CatchupQuerier
// interface ConnectionManager depends on.
type storeCatchupAdapter struct {
	Store store.Store
}

func (a *storeCatchupAdapter) GetCatchupEvents(ctx context.Context, conversationID string, limit int) ([]*models.Event, error) {
	return a.Store.GetEvents(ctx, conversationID, limit)
}
