// Package llm provides the Groq chat-completion adapter implementing
// ports.LLMService. Groq exposes an OpenAI-compatible API, so the
// openai-go client is pointed at its base URL.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/askcorpus/askcorpus-go/internal/domain/ports"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// GroqAdapter implements ports.LLMService. The client is created lazily
// on first use so a missing key surfaces as a configuration error at
// query time, not at startup.
type GroqAdapter struct {
	baseURL   string
	model     string
	apiKeyEnv string

	mu     sync.Mutex
	client *openai.Client
}

// NewGroqAdapter creates a new Groq adapter. Empty arguments fall back
// to the Groq API URL, the llama-3.3-70b-versatile model and the
// GROQ_API_KEY environment variable.
func NewGroqAdapter(baseURL, model, apiKeyEnv string) *GroqAdapter {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	if apiKeyEnv == "" {
		apiKeyEnv = "GROQ_API_KEY"
	}
	return &GroqAdapter{baseURL: baseURL, model: model, apiKeyEnv: apiKeyEnv}
}

// Generate produces a completion for the prompt. Returns an error
// wrapping ports.ErrLLMNotConfigured when the API key is absent.
func (a *GroqAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := a.getClient()
	if err != nil {
		return "", err
	}

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a helpful assistant."),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(300),
	})
	if err != nil {
		return "", fmt.Errorf("calling Groq: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("Groq returned no completion choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (a *GroqAdapter) getClient() (*openai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	key := os.Getenv(a.apiKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing %s; set it in the environment or a .env file: %w",
			a.apiKeyEnv, ports.ErrLLMNotConfigured)
	}

	client := openai.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(a.baseURL),
		option.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	a.client = &client
	return a.client, nil
}
