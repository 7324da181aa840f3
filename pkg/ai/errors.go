package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when a provider is used without its API key.
	ErrMissingCredential = errors.New("missing API key")

	// ErrEmptyResponse is returned when the provider answered without usable text.
	ErrEmptyResponse = errors.New("no usable choice in response")
)

// GenerationError wraps every failure of a TextGenerator.
type GenerationError struct {
	Provider ProviderType
	// StatusCode is the provider's HTTP status, 0 when the request never got an answer.
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGenerationError(provider ProviderType, status int, err error) *GenerationError {
	return &GenerationError{Provider: provider, StatusCode: status, Err: err}
}

// IsGenerationError reports whether err is (or wraps) a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
