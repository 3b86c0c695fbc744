package shared

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps "Field.tag" (or just "Field") to the user-facing problem
// reported when that rule fails.
type FieldMessages map[string]string

// NewValidator returns a validator with the struct tag conventions used by
// request inputs.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// ValidateStruct runs v against input and converts failures into a
// ValidationError using messages. Problems keep field declaration order and
// each field contributes at most one problem.
func ValidateStruct(v *validator.Validate, input any, messages FieldMessages) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	seen := make(map[string]bool, len(fieldErrs))
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.StructField()
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = field + " is invalid"
		}
		problems = append(problems, msg)
	}
	return NewValidationError(problems...)
}
