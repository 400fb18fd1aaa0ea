// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for the query parameter grammar of the public API.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Custom validators for bounding boxes, slugs, CSV lists and price/rating bounds
//   - Field names reported by their query parameter (form tag) name
//   - Error details in the {field, message, code} shape returned to clients
//
// Example usage:
//
//	type AutocompleteRequest struct {
//	    Q    string `form:"q" validate:"required,min=1,max=200"`
//	    City string `form:"city" validate:"omitempty,max=200,slug"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    writer.ValidationError(w, verr.Details())
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/poigate/internal/filters"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9-]+$`)
	csvListPattern = regexp.MustCompile(`^[a-z0-9_,-]+$`)
)

// Codes used for errors raised outside the validator itself.
const (
	CodeUnrecognizedKeys = "unrecognized_keys"
	CodeInvalidType      = "invalid_type"
	CodeInvalidString    = "invalid_string"
)

// ValidationError represents a single field validation error with structured information.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the query parameter name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "80" for "max=80").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// Detail is one entry of the details list in a 400 response.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}

	return strings.Join(messages, "; ")
}

// Details converts the errors to the client-facing details list.
func (ve *RequestValidationError) Details() []Detail {
	out := make([]Detail, len(ve.errors))
	for i, err := range ve.errors {
		out[i] = Detail{Field: err.field, Message: err.message, Code: err.tag}
	}
	return out
}

// UnrecognizedKeys reports query parameters the endpoint does not accept.
func UnrecognizedKeys(names []string) *RequestValidationError {
	errs := make([]ValidationError, len(names))
	for i, name := range names {
		errs[i] = ValidationError{
			field:   name,
			tag:     CodeUnrecognizedKeys,
			message: fmt.Sprintf("Unrecognized key: %q", name),
		}
	}
	return &RequestValidationError{errors: errs}
}

// InvalidType reports a parameter whose raw value could not be decoded.
func InvalidType(field, expected string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{
		field:   field,
		tag:     CodeInvalidType,
		param:   expected,
		message: fmt.Sprintf("%s must be a valid %s", field, expected),
	}}}
}

// Invalid reports a field rejected by a check that runs outside the
// validator, such as free-text query syntax.
func Invalid(field, code, message string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{
		field:   field,
		tag:     code,
		message: message,
	}}}
}

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
// This function is thread-safe.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		mustRegister("bbox", validateBBox)
		mustRegister("slug", validateSlug)
		mustRegister("csvlist", validateCSVList)
		mustRegister("price_level", validatePriceLevel)
		mustRegister("legacy_price", validateLegacyPrice)
		mustRegister("rating", validateRating)
	})

	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func validateBBox(fl validator.FieldLevel) bool {
	return filters.ParseBBox(fl.Field().String()) != nil
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugPattern.MatchString(fl.Field().String())
}

func validateCSVList(fl validator.FieldLevel) bool {
	return csvListPattern.MatchString(fl.Field().String())
}

func validatePriceLevel(fl validator.FieldLevel) bool {
	return filters.ParsePriceBound(fl.Field().String()) != nil
}

func validateLegacyPrice(fl validator.FieldLevel) bool {
	return filters.ParseLegacyPrice(fl.Field().String()) != nil
}

func validateRating(fl validator.FieldLevel) bool {
	return filters.ParseRatingBound(fl.Field().String()) != nil
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	// Convert validator errors to our RequestValidationError type using errors.As
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Unexpected error type - wrap it
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// errorMessageTemplates maps validation tags to message templates.
// Templates use %s for the field name.
var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"bbox":         "%s must be lat_min,lng_min,lat_max,lng_max within valid ranges",
	"slug":         "%s must be lowercase alphanumeric with dashes only",
	"csvlist":      "%s must be lowercase alphanumeric with underscores, dashes, and commas",
	"price_level":  "%s must be an integer between 1 and 4",
	"legacy_price": "%s must be an integer between 1 and 4 or 1 to 4 euro signs",
	"rating":       "%s must be a number between 0 and 5",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	// Check simple templates (no param)
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	// Check templates with param
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	// Handle min/max with type-specific messages
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
