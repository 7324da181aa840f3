package domain

import (
	"errors"
	"strings"
)

const (
	RequiredFieldsMessage = "All fields are required"
	NotFoundMessage       = "Email not found"
)

var ErrEmailNotFound = errors.New("email not found")

// ValidationError lists the required request fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return RequiredFieldsMessage
	}
	return RequiredFieldsMessage + ": missing " + strings.Join(e.Fields, ", ")
}
