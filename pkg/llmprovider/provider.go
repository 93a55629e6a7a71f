// Package llmprovider defines the narrow interface every agent uses to call
// a language model, plus two implementations: EchoProvider, a trivial
// offline/test provider, and HTTPProvider, a plain JSON/HTTP adapter to an
// external model server. This is the Go-native equivalent of the teacher's
// gRPC bridge to its Python LLM microservice (pkg/llm/client.go) — same
// narrow-interface-to-an-out-of-process-model shape, without protoc-generated
// stubs.
package llmprovider

import "context"

// Role is the speaker of a single message in a conversation passed to
// Generate.
type Role string

// Recognized roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single {role, content} pair in the ordered sequence passed to
// Generate.
type Message struct {
	Role    Role
	Content string
}

// Options configures a single Generate call. Model and Temperature are
// optional; MaxTokens is always applied.
type Options struct {
	MaxTokens   int
	Model       string
	Temperature *float64
}

// Provider is the language-model provider interface. Implementations must
// accept an arbitrary ordered sequence of messages and return a single
// string; they must not retain ctx beyond the call.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error)
}
