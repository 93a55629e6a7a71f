package llmprovider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludwigkubler/cognitive-os/pkg/llmprovider"
)

func TestEchoProvider_EchoesLastUserMessage(t *testing.T) {
	p := llmprovider.EchoProvider{}
	out, err := p.Generate(context.Background(), "be nice", []llmprovider.Message{
		{Role: llmprovider.RoleSystem, Content: "be nice"},
		{Role: llmprovider.RoleUser, Content: "hello"},
		{Role: llmprovider.RoleAssistant, Content: "hi there"},
		{Role: llmprovider.RoleUser, Content: "how are you"},
	}, llmprovider.Options{})
	require.NoError(t, err)
	assert.Equal(t, "echo: how are you", out)
}

func TestEchoProvider_NoUserMessage(t *testing.T) {
	p := llmprovider.EchoProvider{}
	out, err := p.Generate(context.Background(), "", nil, llmprovider.Options{})
	require.NoError(t, err)
	assert.Equal(t, "echo: (no input)", out)
}

func TestHTTPProvider_PostsAndDecodesResponse(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer server.Close()

	p := llmprovider.NewHTTPProvider(server.URL)
	out, err := p.Generate(context.Background(), "sys", []llmprovider.Message{
		{Role: llmprovider.RoleUser, Content: "hi"},
	}, llmprovider.Options{MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "sys", received["system_prompt"])
}

func TestHTTPProvider_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	p := llmprovider.NewHTTPProvider(server.URL)
	_, err := p.Generate(context.Background(), "", nil, llmprovider.Options{})
	require.Error(t, err)
}

func TestFromEnv_FallsBackToEcho(t *testing.T) {
	t.Setenv("LLM_PROVIDER_URL", "")
	provider := llmprovider.FromEnv()
	_, ok := provider.(llmprovider.EchoProvider)
	assert.True(t, ok)
}
