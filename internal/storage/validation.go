package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidValidation = errors.New("invalid validation")
	ErrInvalidCard       = errors.New("invalid card")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateValidations validates a slice of validations.
func validateValidations(validations []model.Validation) error {
	if validations == nil {
		return fmt.Errorf("%w: validations", ErrNilParameter)
	}
	for i, v := range validations {
		if err := validateValidation(&v); err != nil {
			return fmt.Errorf("validation at index %d: %w", i, err)
		}
	}
	return nil
}

// validateValidation validates a single validation.
func validateValidation(v *model.Validation) error {
	if v == nil {
		return fmt.Errorf("%w: validation", ErrNilParameter)
	}
	if v.ID == 0 {
		return fmt.Errorf("%w: missing ID", ErrInvalidValidation)
	}
	if v.Merchant == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidValidation)
	}
	if v.Date.IsZero() {
		return fmt.Errorf("%w: missing transaction date", ErrInvalidValidation)
	}
	return nil
}

// validateCard validates a single card.
func validateCard(c *model.Card) error {
	if c == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if c.ID == 0 {
		return fmt.Errorf("%w: missing ID", ErrInvalidCard)
	}
	if c.CardName == "" {
		return fmt.Errorf("%w: missing card name", ErrInvalidCard)
	}
	return nil
}
