// Package ids generates the opaque, globally unique identifiers used by
// every entity in pkg/models (conversations, plans, tasks, memory items,
// agent runs, agent definitions, events).
package ids

import "github.com/google/uuid"

// New returns a new globally unique identifier string.
func New() string {
	return uuid.New().String()
}
