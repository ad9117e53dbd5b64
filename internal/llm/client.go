package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/esp32-copilot/go-copilot-backend/config"
)

const (
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"

	DefaultProvider = ProviderOpenAI
	DefaultModel    = "gpt-4o"
)

// ErrMissingAPIKey signals that the selected provider has no configured
// credential. Callers map it to a client error rather than a gateway one.
var ErrMissingAPIKey = errors.New("API key not configured")

// ProviderError carries the provider-reported failure through unchanged.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Request is one completion call. Provider and Model fall back to the
// defaults when empty.
type Request struct {
	Provider string
	Model    string
	System   string
	Prompt   string
}

// Client talks to OpenAI-compatible chat-completion endpoints. All three
// supported providers share the same wire format.
type Client struct {
	BaseURLs map[string]string
	HTTP     *http.Client

	keys map[string]string
}

func NewClient(cfg config.LLMConfig) *Client {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		BaseURLs: map[string]string{
			ProviderOpenAI:     "https://api.openai.com/v1",
			ProviderGroq:       "https://api.groq.com/openai/v1",
			ProviderOpenRouter: "https://openrouter.ai/api/v1",
		},
		HTTP: &http.Client{Timeout: timeout},
		keys: map[string]string{
			ProviderOpenAI:     cfg.OpenAIKey,
			ProviderGroq:       cfg.GroqKey,
			ProviderOpenRouter: cfg.OpenRouterKey,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete runs one chat completion. The caller's context bounds the round
// trip; on any failure nothing is retried here.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	provider := req.Provider
	if provider == "" {
		provider = DefaultProvider
	}
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	base, ok := c.BaseURLs[provider]
	if !ok {
		return "", &ProviderError{Provider: provider, Message: "unsupported provider"}
	}
	key := c.keys[provider]
	if key == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}

	body, _ := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s request: %w", provider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: provider, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: "malformed response"}
	}

	if resp.StatusCode >= 400 {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: msg}
	}
	if len(out.Choices) == 0 {
		return "", &ProviderError{Provider: provider, StatusCode: resp.StatusCode, Message: "empty completion"}
	}

	return out.Choices[0].Message.Content, nil
}
