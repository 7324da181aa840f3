package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiService implements TextGenerator using the Gemini API through the genai SDK
type GeminiService struct {
	client *genai.Client
}

// NewGeminiService creates a Gemini client. baseURL is only set in tests.
func NewGeminiService(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GeminiService, error) {
	if apiKey == "" {
		return nil, NewGenerationError(ProviderGemini, 0, ErrMissingCredential)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

func (g *GeminiService) Provider() ProviderType {
	return ProviderGemini
}

// Generate implements TextGenerator
func (g *GeminiService) Generate(ctx context.Context, p Prompt) (string, error) {
	model := p.Model
	if model == "" {
		model = defaultGeminiModel
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: p.User}},
	}}

	config := &genai.GenerateContentConfig{}
	if p.System != "" {
		// System instruction uses user role
		config.SystemInstruction = &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", NewGenerationError(ProviderGemini, 0, fmt.Errorf("gemini generation failed: %w", err))
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", NewGenerationError(ProviderGemini, http.StatusOK, ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", NewGenerationError(ProviderGemini, http.StatusOK, ErrEmptyResponse)
	}
	return text, nil
}
