// Package llm provides Cohere implementation of the Provider interface.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/smartinsure/claimpilot/internal/config"
)

const defaultCohereURL = "https://api.cohere.ai/v1/chat"

// CohereProvider implements Provider using the Cohere chat API.
type CohereProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewCohereProvider creates a new Cohere provider.
func NewCohereProvider(cfg *config.LLMConfig) (*CohereProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Cohere API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "command-r-plus"
	}

	endpoint := cfg.CohereURL
	if endpoint == "" {
		endpoint = defaultCohereURL
	}

	return &CohereProvider{
		apiKey:     cfg.APIKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}, nil
}

// Name returns the provider name.
func (p *CohereProvider) Name() string {
	return "cohere"
}

type cohereChatRequest struct {
	Message     string              `json:"message"`
	ChatHistory []cohereChatMessage `json:"chat_history"`
	Preamble    string              `json:"preamble,omitempty"`
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type cohereChatMessage struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type cohereChatResponse struct {
	Text    string `json:"text"`
	Message string `json:"message,omitempty"` // error detail on non-200
}

// Complete generates a completion for the given prompt.
func (p *CohereProvider) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return p.CompleteWithSystem(ctx, "", prompt, opts)
}

// CompleteWithSystem generates a completion with a system preamble.
func (p *CohereProvider) CompleteWithSystem(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	reqBody := cohereChatRequest{
		Message:     user,
		ChatHistory: []cohereChatMessage{},
		Preamble:    system,
		Model:       model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Cohere request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result cohereChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Message != "" {
			return "", fmt.Errorf("Cohere error: %s", result.Message)
		}
		return "", fmt.Errorf("Cohere returned status %d", resp.StatusCode)
	}

	if result.Text == "" {
		return "", fmt.Errorf("Cohere returned no text")
	}

	return result.Text, nil
}
