// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed field, serialized into the error envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	tag     string
}

// Tag returns the validation tag that failed.
func (e FieldError) Tag() string {
	return e.tag
}

// RequestValidationError collects every failed field of one request.
type RequestValidationError struct {
	errors []FieldError
}

// NewRequestValidationError builds an error from handler-side checks that
// cannot be expressed as struct tags.
func NewRequestValidationError(fields ...FieldError) *RequestValidationError {
	return &RequestValidationError{errors: fields}
}

// FieldErr creates a FieldError for NewRequestValidationError.
func FieldErr(field, message string) FieldError {
	return FieldError{Field: field, Message: message, tag: "custom"}
}

// Errors returns the failed fields in struct order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Has reports whether the given field failed.
func (ve *RequestValidationError) Has(field string) bool {
	for _, e := range ve.errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Merge appends the errors of other, if any.
func (ve *RequestValidationError) Merge(other *RequestValidationError) *RequestValidationError {
	if other == nil {
		return ve
	}
	if ve == nil {
		return other
	}
	ve.errors = append(ve.errors, other.errors...)
	return ve
}

// Error implements the error interface.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		messages[i] = e.Field + ": " + e.Message
	}
	return strings.Join(messages, "; ")
}

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	idPhonePattern  = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,11}$`)
)

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				if form := fld.Tag.Get("form"); form != "" {
					return form
				}
				return fld.Name
			}
			return name
		})

		mustRegister("strongpassword", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		mustRegister("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		mustRegister("idphone", func(fl validator.FieldLevel) bool {
			return idPhonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
		})
		mustRegister("isodate", func(fl validator.FieldLevel) bool {
			_, err := ParseISODate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// IsStrongPassword requires a lowercase letter, an uppercase letter and a digit.
func IsStrongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// ParseISODate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseISODate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("not an ISO 8601 date: %q", s)
	}
	return t, nil
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []FieldError{{Field: "unknown", Message: err.Error(), tag: "unknown"}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fieldPath(fe),
			Message: translateError(fe),
			tag:     fe.Tag(),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// fieldPath drops the root struct name: "RegisterRequest.userData.nama" -> "userData.nama".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var errorMessageTemplates = map[string]string{
	"required":       "%s wajib diisi",
	"email":          "%s harus berupa email yang valid",
	"strongpassword": "%s harus mengandung huruf kecil, huruf besar, dan angka",
	"username":       "%s hanya boleh berisi huruf, angka, dan underscore",
	"idphone":        "%s harus berupa nomor HP Indonesia yang valid",
	"isodate":        "%s harus berupa tanggal ISO 8601 yang valid",
	"uuid":           "%s tidak valid",
	"numeric":        "%s harus berupa angka",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s harus salah satu dari: %s",
	"gte":   "%s minimal %s",
	"lte":   "%s maksimal %s",
	"gt":    "%s harus lebih dari %s",
	"lt":    "%s harus kurang dari %s",
	"len":   "%s harus %s karakter",
}

// translateError converts a validator.FieldError to a user-facing message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, strings.ReplaceAll(param, " ", ", "))
	}
	return translateMinMax(fe, field, tag, param)
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s minimal %s karakter", field, param)
		}
		return fmt.Sprintf("%s minimal %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s maksimal %s karakter", field, param)
		}
		return fmt.Sprintf("%s maksimal %s", field, param)
	default:
		return fmt.Sprintf("%s tidak valid", field)
	}
}
