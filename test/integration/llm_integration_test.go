package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"contractor-estimate-be/pkg/llm"
	"contractor-estimate-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:11434"
}

func requireOllama(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	res, err := client.Get(ollamaBaseURL())
	if err != nil {
		t.Skipf("Skipping: Ollama not running at %s", ollamaBaseURL())
	}
	res.Body.Close()
}

func TestOllamaGenerate(t *testing.T) {
	requireOllama(t)

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "llama3"
	}
	provider := ollama.NewOllamaProvider(ollamaBaseURL(), model)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	response, err := provider.Generate(ctx, "Reply with the single word: pong", llm.WithTemperature(0))
	require.NoError(t, err)
	assert.NotEmpty(t, response)
	t.Logf("Response: %s", response)
}

func TestOllamaChat(t *testing.T) {
	requireOllama(t)

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "llama3"
	}
	provider := ollama.NewOllamaProvider(ollamaBaseURL(), model)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	history := []llm.Message{
		{Role: "user", Content: "My project is a bathroom remodel."},
		{Role: "assistant", Content: "Got it, a bathroom remodel."},
		{Role: "user", Content: "What kind of project did I mention?"},
	}
	response, err := provider.Chat(ctx, history)
	require.NoError(t, err)
	assert.NotEmpty(t, response)
	t.Logf("Response: %s", response)
}
