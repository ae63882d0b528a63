package validator

import (
	"strings"

	"secret-santa-api/core/controller"
	"secret-santa-api/modules/event/dto"
	"secret-santa-api/modules/event/entity"
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

func ValidateCreateEventRequest(req *dto.CreateEventRequest) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	if len(req.Name) > 200 {
		result.add("name", "name must be at most 200 characters")
	}
	if req.Date.IsZero() {
		result.add("date", "date is required")
	}

	return result
}

func ValidateUpdateEventRequest(req *dto.UpdateEventRequest) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	if req.Date != nil && req.Date.IsZero() {
		result.add("date", "date must be a valid timestamp")
	}

	return result
}

func ValidateUpdateStatusRequest(req *dto.UpdateStatusRequest) ValidationResult {
	var result ValidationResult

	switch entity.EventStatus(req.Status) {
	case entity.EventStatusDraft, entity.EventStatusActive, entity.EventStatusFinished:
	default:
		result.add("status", "status must be draft, active or finished")
	}

	return result
}
