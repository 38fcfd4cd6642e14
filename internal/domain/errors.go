package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned (wrapped) when an id does not resolve to a document.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned (wrapped) when a document violates its schema.
	ErrValidation = errors.New("validation failed")
)

// ValidationError builds an ErrValidation for entity/field, matching the store's message shape.
func ValidationError(entity, field, msg string) error {
	return fmt.Errorf("%w: %s: %s: %s", ErrValidation, entity, field, msg)
}

func requiredError(entity, field string) error {
	return ValidationError(entity, field, fmt.Sprintf("Path `%s` is required.", field))
}

func enumError(entity, field, value string) error {
	return ValidationError(entity, field, fmt.Sprintf("`%s` is not a valid enum value for path `%s`.", value, field))
}
