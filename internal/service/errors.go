package service

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError is a client input problem tied to one request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
