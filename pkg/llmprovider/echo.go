package llmprovider

import (
	"context"
	"strings"
)

// EchoProvider is the trivial offline/test provider named in the external
// interface contract. It never calls out to a real model: it echoes the
// last user message, prefixed so call sites and tests can distinguish a
// real model response from a stand-in one.
type EchoProvider struct{}

// Generate returns a deterministic string derived from the last user
// message in messages, ignoring systemPrompt and opts.
func (EchoProvider) Generate(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	last := lastUserMessage(messages)
	if last == "" {
		return "echo: (no input)", nil
	}
	return "echo: " + last, nil
}

func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return strings.TrimSpace(messages[i].Content)
		}
	}
	return ""
}
