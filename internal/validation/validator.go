// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package validation wraps go-playground/validator behind a singleton with
// human-readable error messages for API responses.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance. Thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError is one failed validation constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestValidationError aggregates all failed constraints of one request.
type RequestValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (ve *RequestValidationError) Error() string {
	messages := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

// ValidateStruct validates s and returns nil or a *RequestValidationError
// listing every failed field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{Fields: []FieldError{
			{Field: "unknown", Tag: "unknown", Message: err.Error()},
		}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: fields}
}

// translateError converts a validator.FieldError to a readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
	case "dive":
		return fmt.Sprintf("%s has invalid elements", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
