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

// OllamaService implements TextGenerator using Ollama local LLM
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *OllamaService) Provider() ProviderType {
	return ProviderOllama
}

// Generate implements TextGenerator
func (o *OllamaService) Generate(ctx context.Context, p Prompt) (string, error) {
	url := o.baseURL + "/api/generate"

	model := p.Model
	if model == "" {
		model = o.model
	}

	payload := map[string]interface{}{
		"model":  model,
		"system": p.System,
		"prompt": p.User,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.7,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", NewGenerationError(ProviderOllama, 0, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", NewGenerationError(ProviderOllama, 0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", NewGenerationError(ProviderOllama, 0, fmt.Errorf("ollama request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewGenerationError(ProviderOllama, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewGenerationError(ProviderOllama, resp.StatusCode, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody)))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", NewGenerationError(ProviderOllama, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}

	text := strings.TrimSpace(result.Response)
	if text == "" {
		return "", NewGenerationError(ProviderOllama, resp.StatusCode, ErrEmptyResponse)
	}
	return text, nil
}

// Ping checks that the Ollama server answers on /api/tags.
func (o *OllamaService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
