package validator

import (
	"net/mail"
	"strings"

	"secret-santa-api/core/controller"
	"secret-santa-api/modules/participant/dto"
)

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (r ValidationResult) HasError() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

func ValidateAddParticipantRequest(req *dto.AddParticipantRequest) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	if len(req.Name) > 100 {
		result.add("name", "name must be at most 100 characters")
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			result.add("email", "email is not valid")
		}
	}

	return result
}
