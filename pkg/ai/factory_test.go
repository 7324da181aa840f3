package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := NewTextGenerator(ctx, Config{Provider: ProviderOpenAI, OpenAIAPIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, gen.Provider())

	gen, err = NewTextGenerator(ctx, Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, gen.Provider())

	gen, err = NewTextGenerator(ctx, Config{Provider: ProviderAuto, OpenAIAPIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAuto, gen.Provider())

	gen, err = NewTextGenerator(ctx, Config{Provider: ProviderAuto})
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, gen.Provider())

	_, err = NewTextGenerator(ctx, Config{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewTextGenerator(ctx, Config{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = NewTextGenerator(ctx, Config{Provider: "watson"})
	assert.Error(t, err)
}

func TestGeminiService_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" Dear Jane, "}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	svc, err := NewGeminiService(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	text, err := svc.Generate(context.Background(), Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Jane,", text)
}

func TestGeminiService_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	svc, err := NewGeminiService(context.Background(), "test-key", srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), Prompt{User: "usr"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiService_MissingKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), "", "", time.Second)
	assert.ErrorIs(t, err, ErrMissingCredential)
}
