package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/contra-ai/contra-api/internal/config"
)

var (
	// ErrMissingAPIKey means the provider credential is absent from the
	// environment. Detected before any network I/O.
	ErrMissingAPIKey = errors.New("provider API key is not configured")

	// ErrEmptyResponse means the provider answered 2xx but returned no usable
	// choice.
	ErrEmptyResponse = errors.New("provider returned no choices")
)

// ProviderError is a non-2xx answer from the provider, with the provider's
// own error message when it could be parsed.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error: %d - %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error: %d", e.StatusCode)
}

// Transformer is the single logical operation the pipeline needs from the
// provider.
type Transformer interface {
	Transform(ctx context.Context, mode Mode, content string) (string, error)
}

// Client calls the provider's chat-completion endpoint. One synchronous call
// per transformation: no retries, no streaming.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

func NewClient(cfg config.ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transform sends the mode's fixed instruction plus the sanitized content and
// returns the first completion's text, trimmed.
func (c *Client) Transform(ctx context.Context, mode Mode, content string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	spec, ok := modeSpecs[mode]
	if !ok {
		return "", ErrUnknownMode
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: spec.systemPrompt},
			{Role: "user", Content: spec.userPrefix + content},
		},
		Temperature: spec.temperature,
		MaxTokens:   spec.maxTokens,
		TopP:        0.9,
		Stream:      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		provErr := &ProviderError{StatusCode: resp.StatusCode}
		var errBody chatErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
			provErr.Message = errBody.Error.Message
		}
		return "", provErr
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if len(data.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(data.Choices[0].Message.Content), nil
}
