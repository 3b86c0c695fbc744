package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var sampleMessages = FieldMessages{
	"Name":              "Name is required",
	"Email":             "Please provide a valid email address",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters long",
}

func TestValidateStructCollectsProblemsInFieldOrder(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleInput{Email: "not-an-email", Password: "abc"}, sampleMessages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"Name is required",
		"Please provide a valid email address",
		"Password must be at least 6 characters long",
	}, verr.Problems)
}

func TestValidateStructTagSpecificMessage(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleInput{Name: "Ann", Email: "ann@example.com"}, sampleMessages)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Password is required"}, verr.Problems)
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleInput{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, sampleMessages)
	assert.NoError(t, err)
}

func TestValidateStructFallbackMessage(t *testing.T) {
	err := ValidateStruct(NewValidator(), sampleInput{Name: "Ann", Email: "ann@example.com", Password: "abc"}, FieldMessages{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Password is invalid"}, verr.Problems)
}
