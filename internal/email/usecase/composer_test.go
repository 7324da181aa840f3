package usecase

import (
	"context"
	"errors"
	"testing"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/pkg/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text  string
	err   error
	calls int
	last  ai.Prompt
}

func (s *stubGenerator) Provider() ai.ProviderType { return ai.ProviderOpenAI }

func (s *stubGenerator) Generate(_ context.Context, p ai.Prompt) (string, error) {
	s.calls++
	s.last = p
	return s.text, s.err
}

func sampleRequest() *emaildomain.GenerationRequest {
	return &emaildomain.GenerationRequest{
		SenderCompany: "Pepsales",
		TargetCompany: "Acme",
		Industry:      "Logistics",
		PersonName:    "Jane Doe",
		Role:          "VP Sales",
		EmailSubject:  "Faster demos",
		Tone:          "Friendly",
		Length:        "Short",
	}
}

func TestBuildPrompt(t *testing.T) {
	req := sampleRequest()
	req.CustomInstructions = "Mention our Q3 webinar."

	p := BuildPrompt(req)
	assert.Contains(t, p, "Write a highly personalized cold email from Pepsales to Jane Doe, the VP Sales at Acme in the Logistics industry")
	assert.Contains(t, p, "Subject: Faster demos")
	assert.Contains(t, p, "- Use a friendly tone and be short in length")
	assert.Contains(t, p, "relevant to Acme and their industry")
	assert.Contains(t, p, "Pepsales's platform can solve pain points like lead qualification, demo personalization, or sales insights")
	assert.Contains(t, p, "someone in the role of VP Sales")
	assert.Contains(t, p, "Mention our Q3 webinar.")
	assert.Contains(t, p, "Return only the email body. Do NOT include signature or re-state the subject.")

	assert.Equal(t, p, BuildPrompt(req), "prompt must be deterministic")
}

func TestCompose(t *testing.T) {
	gen := &stubGenerator{text: "\n  Hi Jane,\n\nLet's talk.  \n"}
	c := NewComposer(gen, "gpt-3.5-turbo")

	text, err := c.Compose(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane,\n\nLet's talk.", text)
	assert.Equal(t, SystemPrompt, gen.last.System)
	assert.Equal(t, "gpt-3.5-turbo", gen.last.Model)
}

func TestCompose_Errors(t *testing.T) {
	providerErr := ai.NewGenerationError(ai.ProviderOpenAI, 401, errors.New("invalid api key"))
	_, err := NewComposer(&stubGenerator{err: providerErr}, "").Compose(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, providerErr)

	_, err = NewComposer(&stubGenerator{text: "   "}, "").Compose(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	assert.True(t, ai.IsGenerationError(err))
}
