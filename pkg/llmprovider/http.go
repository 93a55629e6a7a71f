package llmprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTPProvider calls an external model server over plain JSON/HTTP. It POSTs
// a {system_prompt, messages, options} body and expects {"text": "..."} back.
type HTTPProvider struct {
	URL        string
	Client     *http.Client
	AuthHeader string // optional "Authorization" value, e.g. "Bearer ..."
}

type httpRequestBody struct {
	SystemPrompt string    `json:"system_prompt"`
	Messages     []Message `json:"messages"`
	Options      Options   `json:"options"`
}

type httpResponseBody struct {
	Text string `json:"text"`
}

// NewHTTPProvider returns a provider posting to url with a bounded timeout.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		URL:    url,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate posts the request to p.URL and returns the decoded text field.
func (p *HTTPProvider) Generate(ctx context.Context, systemPrompt string, messages []Message, opts Options) (string, error) {
	body, err := json.Marshal(httpRequestBody{SystemPrompt: systemPrompt, Messages: messages, Options: opts})
	if err != nil {
		return "", fmt.Errorf("marshaling llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.AuthHeader != "" {
		req.Header.Set("Authorization", p.AuthHeader)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling llm provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("llm provider returned status %d: %s", resp.StatusCode, string(data))
	}

	var out httpResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding llm response: %w", err)
	}
	return out.Text, nil
}

// FromEnv selects a provider based on the LLM_PROVIDER_URL environment
// variable, falling back to EchoProvider when unset — the absence-falls-back
// contract from the external interfaces section.
func FromEnv() Provider {
	url := os.Getenv("LLM_PROVIDER_URL")
	if url == "" {
		return EchoProvider{}
	}
	provider := NewHTTPProvider(url)
	if auth := os.Getenv("LLM_PROVIDER_AUTH"); auth != "" {
		provider.AuthHeader = auth
	}
	return provider
}
