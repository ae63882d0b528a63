package validator

import (
	"net/mail"
	"strings"

	"secret-santa-api/core/controller"
	"secret-santa-api/modules/auth/dto"
)

// ValidationResult collects field errors for a request.
type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (r ValidationResult) HasError() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func ValidateRegisterRequest(req *dto.RegisterRequest) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(req.Email) == "" {
		result.add("email", "email is required")
	} else if !isValidEmail(req.Email) {
		result.add("email", "email is not valid")
	}
	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	if len(req.Password) < 8 {
		result.add("password", "password must be at least 8 characters")
	}

	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(req.Email) == "" {
		result.add("email", "email is required")
	}
	if req.Password == "" {
		result.add("password", "password is required")
	}

	return result
}

func ValidateUpdateUserRequest(req *dto.UpdateUserRequest) ValidationResult {
	var result ValidationResult

	if req.Role == nil && req.MaxEvents == nil {
		result.add("body", "at least one field must be provided")
	}
	if req.Role != nil && *req.Role != "admin" && *req.Role != "guest" {
		result.add("role", "role must be admin or guest")
	}
	if req.MaxEvents != nil && *req.MaxEvents < 1 {
		result.add("max_events", "max_events must be at least 1")
	}

	return result
}
