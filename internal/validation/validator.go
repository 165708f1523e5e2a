// Courseatlas - Hybrid Course Recommendation Service
// Copyright 2026 Courseatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/courseatlas/courseatlas

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton with error translation into the API error envelope.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/courseatlas/courseatlas/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator instance. The instance caches
// struct metadata, so sharing it is both safe and faster.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		registerCustomValidators(validate)
	})
	return validate
}

func registerCustomValidators(v *validator.Validate) {
	// difficulty accepts the three catalog difficulty levels.
	//nolint:errcheck // registration only fails for empty tag names
	v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "Beginner", "Intermediate", "Advanced":
			return true
		}
		return false
	})
}

// FieldError is one translated validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestError aggregates the validation failures of one request.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual failures.
func (e *RequestError) Fields() []FieldError {
	return e.fields
}

func (e *RequestError) Error() string {
	msgs := make([]string, len(e.fields))
	for i, f := range e.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// ToAPIError converts the failure set into the API error envelope, keyed by
// the first failing field.
func (e *RequestError) ToAPIError() *models.APIError {
	details := make(map[string]interface{}, len(e.fields))
	for _, f := range e.fields {
		details[f.Field] = f.Message
	}
	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: e.fields[0].Message,
		Details: details,
	}
}

// ValidateStruct validates a request struct, returning nil when it passes.
func ValidateStruct(s interface{}) *RequestError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "request",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}
	return &RequestError{fields: fields}
}

// translate renders a field error as a human-readable message.
func translate(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "difficulty":
		return fmt.Sprintf("%s must be Beginner, Intermediate or Advanced", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
