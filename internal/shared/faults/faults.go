// Package faults defines the typed failures surfaced by the petguard use cases.
package faults

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the stable, machine-checkable category of a failure.
type Kind string

const (
	KindNotAuthenticated        Kind = "not_authenticated"
	KindUnregisteredPrincipal   Kind = "unregistered_principal"
	KindNotFound                Kind = "not_found"
	KindRequiredFieldEmpty      Kind = "required_field_empty"
	KindNotInEnum               Kind = "not_in_enum"
	KindNegativeValueNotAllowed Kind = "negative_value_not_allowed"
	KindInvalidDateFormat       Kind = "invalid_date_format"
	KindInvalidDateComponent    Kind = "invalid_date_component"
	KindFutureDateNotAllowed    Kind = "future_date_not_allowed"
	KindValueTooLong            Kind = "value_too_long"
	KindInvalidPhoneFormat      Kind = "invalid_phone_format"
	KindConflict                Kind = "conflict"
)

// Error carries a kind plus the human-readable message and cause callers surface verbatim.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   string `json:"cause"`
	// Field names the offending field, entity, or date component.
	Field string `json:"field,omitempty"`
	// Value is the offending value or identifier rendered as text.
	Value string `json:"value,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Cause)
}

// Is matches any *Error of the same kind, so the Err* sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || t == nil || e == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotAuthenticated        = &Error{Kind: KindNotAuthenticated}
	ErrUnregisteredPrincipal   = &Error{Kind: KindUnregisteredPrincipal}
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrRequiredFieldEmpty      = &Error{Kind: KindRequiredFieldEmpty}
	ErrNotInEnum               = &Error{Kind: KindNotInEnum}
	ErrNegativeValueNotAllowed = &Error{Kind: KindNegativeValueNotAllowed}
	ErrInvalidDateFormat       = &Error{Kind: KindInvalidDateFormat}
	ErrInvalidDateComponent    = &Error{Kind: KindInvalidDateComponent}
	ErrFutureDateNotAllowed    = &Error{Kind: KindFutureDateNotAllowed}
	ErrValueTooLong            = &Error{Kind: KindValueTooLong}
	ErrInvalidPhoneFormat      = &Error{Kind: KindInvalidPhoneFormat}
	ErrConflict                = &Error{Kind: KindConflict}
)

// NotAuthenticated reports a call made without an authenticated caller.
func NotAuthenticated() *Error {
	return &Error{
		Kind:    KindNotAuthenticated,
		Message: "User must be authenticated to perform this action.",
		Cause:   "User is not authenticated in the system.",
	}
}

// UnregisteredPrincipal reports an account with neither an individual nor an organization profile.
func UnregisteredPrincipal(identity string) *Error {
	return &Error{
		Kind:    KindUnregisteredPrincipal,
		Message: "User has no petguard account.",
		Cause:   fmt.Sprintf("User %s has no petguard account.", identity),
		Value:   identity,
	}
}

// NotFound reports a missing entity; scope mismatches surface the same way.
func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("No %s was found with the identifier passed.", entity),
		Cause:   fmt.Sprintf("ID: %v", id),
		Field:   entity,
		Value:   fmt.Sprint(id),
	}
}

// RequiredFieldEmpty reports a mandatory field that is absent or blank.
func RequiredFieldEmpty(field string) *Error {
	return &Error{
		Kind:    KindRequiredFieldEmpty,
		Message: fmt.Sprintf("Field %s cannot be empty.", field),
		Cause:   "Value passed is empty.",
		Field:   field,
	}
}

// NotInEnum reports a value outside the declared literals of a closed enum.
func NotInEnum(field, value string, allowed []string) *Error {
	return &Error{
		Kind:    KindNotInEnum,
		Message: fmt.Sprintf("Field %s must be one of: %s.", field, strings.Join(allowed, ", ")),
		Cause:   fmt.Sprintf("Value passed: %s", value),
		Field:   field,
		Value:   value,
	}
}

// NegativeValueNotAllowed reports a numeric field below zero.
func NegativeValueNotAllowed(field string, value any) *Error {
	return &Error{
		Kind:    KindNegativeValueNotAllowed,
		Message: fmt.Sprintf("Field %s cannot be negative.", field),
		Cause:   fmt.Sprintf("Value passed: %v", value),
		Field:   field,
		Value:   fmt.Sprint(value),
	}
}

// InvalidDateFormat reports a date literal that is not YYYY-MM-DD.
func InvalidDateFormat(field, value string) *Error {
	return &Error{
		Kind:    KindInvalidDateFormat,
		Message: "The date passed has the wrong format. Correct format: YYYY-MM-DD",
		Cause:   fmt.Sprintf("Value passed: %s", value),
		Field:   field,
		Value:   value,
	}
}

// InvalidDateComponent reports a month or day outside its calendar range.
func InvalidDateComponent(component string, value, min, max int) *Error {
	return &Error{
		Kind:    KindInvalidDateComponent,
		Message: fmt.Sprintf("The %s passed is incorrect. It must be between %d and %d", component, min, max),
		Cause:   fmt.Sprintf("Value passed: %d", value),
		Field:   component,
		Value:   fmt.Sprint(value),
	}
}

// FutureDateNotAllowed reports a date later than the current day.
func FutureDateNotAllowed(field, value string) *Error {
	return &Error{
		Kind:    KindFutureDateNotAllowed,
		Message: "The date passed must be before the current date.",
		Cause:   fmt.Sprintf("Value passed: %s", value),
		Field:   field,
		Value:   value,
	}
}

// ValueTooLong reports a text field above its maximum length.
func ValueTooLong(field, value string, max int) *Error {
	return &Error{
		Kind:    KindValueTooLong,
		Message: fmt.Sprintf("Field %s cannot exceed %d characters.", field, max),
		Cause:   fmt.Sprintf("Value passed: %s", value),
		Field:   field,
		Value:   value,
	}
}

// InvalidPhoneFormat reports a contact number that is not a phone number.
func InvalidPhoneFormat(field, value string) *Error {
	return &Error{
		Kind:    KindInvalidPhoneFormat,
		Message: fmt.Sprintf("Field %s must be a phone number with 8 to 15 digits.", field),
		Cause:   fmt.Sprintf("Value passed: %s", value),
		Field:   field,
		Value:   value,
	}
}

// Conflict reports a request that collides with previously stored state.
func Conflict(message, cause string) *Error {
	return &Error{Kind: KindConflict, Message: message, Cause: cause}
}

// As extracts the *Error carried by err, if any.
func As(err error) (*Error, bool) {
	var f *Error
	if errors.As(err, &f) && f != nil {
		return f, true
	}
	return nil, false
}

// KindOf returns the kind carried by err, or "" for untyped errors.
func KindOf(err error) Kind {
	if f, ok := As(err); ok {
		return f.Kind
	}
	return ""
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindRequiredFieldEmpty, KindNotInEnum, KindNegativeValueNotAllowed,
		KindInvalidDateFormat, KindInvalidDateComponent, KindFutureDateNotAllowed, KindValueTooLong, KindInvalidPhoneFormat:
		return true
	}
	return false
}
