package models

import (
	"errors"
	"fmt"
)

// ErrorType identifies the category of error that occurred.
type ErrorType string

const (
	// Project loading
	ErrTypeConfig            ErrorType = "config_error"
	ErrTypeNameConflict      ErrorType = "name_conflict"
	ErrTypeUnsupportedMode   ErrorType = "unsupported_action_mode"
	ErrTypeUnknownDependency ErrorType = "unknown_dependency"

	// Template expansion
	ErrTypeUnresolvedPlaceholder ErrorType = "unresolved_placeholder"

	// Resolution
	ErrTypeUnknownAction    ErrorType = "unknown_action"
	ErrTypeCyclicDependency ErrorType = "cyclic_dependency"

	// Execution
	ErrTypeActionFailed  ErrorType = "action_failed"
	ErrTypeOutputMissing ErrorType = "output_missing"
)

// Sentinels for use with errors.Is. They match any *Error of the same type.
var (
	ErrConfig                = &Error{Type: ErrTypeConfig}
	ErrNameConflict          = &Error{Type: ErrTypeNameConflict}
	ErrUnsupportedMode       = &Error{Type: ErrTypeUnsupportedMode}
	ErrUnknownDependency     = &Error{Type: ErrTypeUnknownDependency}
	ErrUnresolvedPlaceholder = &Error{Type: ErrTypeUnresolvedPlaceholder}
	ErrUnknownAction         = &Error{Type: ErrTypeUnknownAction}
	ErrCyclicDependency      = &Error{Type: ErrTypeCyclicDependency}
	ErrActionFailed          = &Error{Type: ErrTypeActionFailed}
	ErrOutputMissing         = &Error{Type: ErrTypeOutputMissing}
)

// Error is a typed failure carrying the offending name, path or field.
type Error struct {
	Type    ErrorType
	Subject string
	Message string
	Err     error
}

// Errorf builds an *Error of the given type about subject.
func Errorf(typ ErrorType, subject, format string, args ...any) *Error {
	return &Error{Type: typ, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := string(e.Type)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ErrorTypeOf returns the type of the first *Error in err's chain, or "" if there is none.
func ErrorTypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// MissingField reports an absent required configuration key.
func MissingField(field string) *Error {
	return Errorf(ErrTypeConfig, field, "missing required field %q", field)
}
