package validator

import (
	"testing"

	"secret-santa-api/modules/auth/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(result ValidationResult) []string {
	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateRegisterRequest_Valid(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Name:     "ana",
		Email:    "ana@example.com",
		Password: "correct horse",
	})
	assert.False(t, result.HasError())
}

func TestValidateRegisterRequest_MissingFields(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{})
	require.True(t, result.HasError())
	assert.ElementsMatch(t, []string{"email", "name", "password"}, fieldErrors(result))
}

func TestValidateRegisterRequest_BadEmail(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Name:     "ana",
		Email:    "not-an-email",
		Password: "correct horse",
	})
	require.True(t, result.HasError())
	assert.Equal(t, []string{"email"}, fieldErrors(result))
}

func TestValidateRegisterRequest_ShortPassword(t *testing.T) {
	result := ValidateRegisterRequest(&dto.RegisterRequest{
		Name:     "ana",
		Email:    "ana@example.com",
		Password: "short",
	})
	require.True(t, result.HasError())
	assert.Equal(t, []string{"password"}, fieldErrors(result))
}

func TestValidateLoginRequest(t *testing.T) {
	result := ValidateLoginRequest(&dto.LoginRequest{Email: "ana@example.com", Password: "secret"})
	assert.False(t, result.HasError())

	result = ValidateLoginRequest(&dto.LoginRequest{})
	assert.ElementsMatch(t, []string{"email", "password"}, fieldErrors(result))
}

func TestValidateUpdateUserRequest(t *testing.T) {
	role := "admin"
	badRole := "owner"
	maxEvents := 3
	zero := 0

	assert.False(t, ValidateUpdateUserRequest(&dto.UpdateUserRequest{Role: &role}).HasError())
	assert.False(t, ValidateUpdateUserRequest(&dto.UpdateUserRequest{MaxEvents: &maxEvents}).HasError())

	assert.Equal(t, []string{"body"}, fieldErrors(ValidateUpdateUserRequest(&dto.UpdateUserRequest{})))
	assert.Equal(t, []string{"role"}, fieldErrors(ValidateUpdateUserRequest(&dto.UpdateUserRequest{Role: &badRole})))
	assert.Equal(t, []string{"max_events"}, fieldErrors(ValidateUpdateUserRequest(&dto.UpdateUserRequest{MaxEvents: &zero})))
}
