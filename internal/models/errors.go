package models

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input validation failure.
var ErrValidation = errors.New("validation failed")

func requiredField(name string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, name)
}

func invalidField(name, value string) error {
	return fmt.Errorf("%w: invalid %s %q", ErrValidation, name, value)
}
