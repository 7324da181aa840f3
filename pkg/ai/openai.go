package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOpenAIModel = "gpt-3.5-turbo"

// OpenAIService implements TextGenerator using the chat completions endpoint
type OpenAIService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIService creates a new OpenAI service. An empty baseURL targets api.openai.com.
func NewOpenAIService(apiKey, baseURL string, timeout time.Duration) *OpenAIService {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
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
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (o *OpenAIService) Provider() ProviderType {
	return ProviderOpenAI
}

// Generate implements TextGenerator
func (o *OpenAIService) Generate(ctx context.Context, p Prompt) (string, error) {
	if o.apiKey == "" {
		return "", NewGenerationError(ProviderOpenAI, 0, ErrMissingCredential)
	}

	model := p.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
	})
	if err != nil {
		return "", NewGenerationError(ProviderOpenAI, 0, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewGenerationError(ProviderOpenAI, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", NewGenerationError(ProviderOpenAI, 0, fmt.Errorf("openai request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewGenerationError(ProviderOpenAI, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	var result chatResponse
	parseErr := json.Unmarshal(respBody, &result)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if parseErr == nil && result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", NewGenerationError(ProviderOpenAI, resp.StatusCode, fmt.Errorf("openai API error (%d): %s", resp.StatusCode, msg))
	}
	if parseErr != nil {
		return "", NewGenerationError(ProviderOpenAI, resp.StatusCode, fmt.Errorf("failed to parse response: %w", parseErr))
	}

	if len(result.Choices) == 0 {
		return "", NewGenerationError(ProviderOpenAI, resp.StatusCode, ErrEmptyResponse)
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", NewGenerationError(ProviderOpenAI, resp.StatusCode, ErrEmptyResponse)
	}
	return text, nil
}

// Ping lists models to verify the key and endpoint without spending tokens.
func (o *OpenAIService) Ping(ctx context.Context) error {
	if o.apiKey == "" {
		return ErrMissingCredential
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	return nil
}
