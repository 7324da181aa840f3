package domain

import "strings"

const (
	DefaultTone   = "Professional"
	DefaultLength = "Concise"
)

// GenerationRequest describes the email to write.
type GenerationRequest struct {
	SenderCompany      string
	TargetCompany      string
	Industry           string
	PersonName         string
	Role               string
	EmailSubject       string
	Tone               string
	Length             string
	CustomInstructions string
	SessionID          string
}

// Normalize fills in the default tone and length.
func (r *GenerationRequest) Normalize() {
	if strings.TrimSpace(r.Tone) == "" {
		r.Tone = DefaultTone
	}
	if strings.TrimSpace(r.Length) == "" {
		r.Length = DefaultLength
	}
}

// Validate reports every empty required field.
func (r *GenerationRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"sender_company", r.SenderCompany},
		{"target_company", r.TargetCompany},
		{"person_name", r.PersonName},
		{"role", r.Role},
		{"email_subject", r.EmailSubject},
	}

	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
