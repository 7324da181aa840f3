package usecase

import (
	"context"
	"fmt"
	"strings"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/pkg/ai"
)

// SystemPrompt is sent with every generation request.
const SystemPrompt = "You write persuasive and personalized B2B cold emails."

// Composer turns a generation request into an email body via the text generator.
type Composer struct {
	generator ai.TextGenerator
	model     string
}

// NewComposer creates a Composer. An empty model lets the provider pick its default.
func NewComposer(generator ai.TextGenerator, model string) *Composer {
	return &Composer{generator: generator, model: model}
}

// BuildPrompt renders the user instruction for req.
func BuildPrompt(req *emaildomain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("\nYou are an expert cold email copywriter and B2B personalization strategist.\n\n")
	fmt.Fprintf(&b, "Write a highly personalized cold email from %s to %s, the %s at %s in the %s industry, based on the following subject line:\n\n",
		req.SenderCompany, req.PersonName, req.Role, req.TargetCompany, req.Industry)
	fmt.Fprintf(&b, "Subject: %s\n\n", req.EmailSubject)
	b.WriteString("The email should:\n")
	fmt.Fprintf(&b, "- Use a %s tone and be %s in length\n", strings.ToLower(req.Tone), strings.ToLower(req.Length))
	fmt.Fprintf(&b, "- Start with a hook that's personalized and relevant to %s and their industry\n", req.TargetCompany)
	fmt.Fprintf(&b, "- Explain how %s's platform can solve pain points like lead qualification, demo personalization, or sales insights\n", req.SenderCompany)
	fmt.Fprintf(&b, "- Show why this is useful for someone in the role of %s\n", req.Role)
	b.WriteString("- Align with the theme of the subject line\n")
	b.WriteString("- End with a friendly CTA to continue the conversation\n\n")
	fmt.Fprintf(&b, "%s\n\n", req.CustomInstructions)
	b.WriteString("Return only the email body. Do NOT include signature or re-state the subject.\n")
	return b.String()
}

// Compose generates the email body. The returned text is trimmed.
func (c *Composer) Compose(ctx context.Context, req *emaildomain.GenerationRequest) (string, error) {
	text, err := c.generator.Generate(ctx, ai.Prompt{
		System: SystemPrompt,
		User:   BuildPrompt(req),
		Model:  c.model,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ai.NewGenerationError(c.generator.Provider(), 0, ai.ErrEmptyResponse)
	}
	return text, nil
}
