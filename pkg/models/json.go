// Package models defines the core data entities shared by every component:
// messages, conversations, emotional state, plans/tasks, memory items, agent
// runs, agent definitions, and events. Entities are plain structs; schemaless
// fields use the open-ended JSON value type defined here instead of locking
// in a schema prematurely.
package models

// JSON is a schemaless, tagged open-ended value type for payloads and
// metadata that are mappings in the source design (input/output payloads,
// memory metadata, agent config, event payloads). The Postgres store
// JSON-marshals it at the persistence boundary, while the in-memory store
// keeps the values as they are; callers take typed
// projections at read sites rather than asserting into this map directly
// wherever avoidable.
type JSON map[string]any

// Clone returns a shallow copy of j, or nil if j is nil.
func (j JSON) Clone() JSON {
	if j == nil {
		return nil
	}
	out := make(JSON, len(j))
	for k, v := range j {
		out[k] = v
	}
	return out
}

// String returns the string value at key, or "" if absent or not a string.
func (j JSON) String(key string) string {
	if j == nil {
		return ""
	}
	s, _ := j[key].(string)
	return s
}

// Bool returns the bool value at key, or false if absent or not a bool.
func (j JSON) Bool(key string) bool {
	if j == nil {
		return false
	}
	b, _ := j[key].(bool)
	return b
}
