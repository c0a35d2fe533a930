package errors

import (
	"fmt"
	"strings"
)

// FieldValidationError describes one invalid field or entry.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
	HelpText     []string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", fve.FieldName, fve.ErrorMessage)
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
		HelpText:     suggestions,
	}
}

// ValidationErrorCollection gathers every problem found in one pass so callers
// can report them all at once.
type ValidationErrorCollection struct {
	Errors []*FieldValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	switch len(vec.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return vec.Errors[0].Error()
	default:
		return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
	}
}

// Add adds a field validation error to the collection.
func (vec *ValidationErrorCollection) Add(
	field string,
	value interface{},
	message string,
	suggestions ...string,
) {
	vec.Errors = append(vec.Errors, NewFieldValidationError(field, value, message, suggestions...))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// Err returns nil for an empty collection and a CarouselError otherwise.
func (vec *ValidationErrorCollection) Err() error {
	if !vec.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(vec.Errors))
	context := make(map[string]interface{}, len(vec.Errors))
	for _, err := range vec.Errors {
		messages = append(messages, err.Error())
		context[err.FieldName] = map[string]interface{}{
			"value":       err.FieldValue,
			"suggestions": err.HelpText,
		}
	}

	return &CarouselError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeValidationFailed,
		Message:     strings.Join(messages, "; "),
		Cause:       vec,
		Context:     context,
		Recoverable: true,
	}
}
