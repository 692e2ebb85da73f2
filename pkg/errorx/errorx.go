package errorx

import (
	"fmt"

	"github.com/pkg/errors"
)

// GENERAL ERROR:

// GeneralError - General App Error.
type GeneralError struct {
	message string
	err     error
}

// NewGeneralError - GeneralError constructor.
func NewGeneralError(msg string, args ...any) *GeneralError {
	return &GeneralError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewGeneralErrorWrapper - GeneralError constructor for wrapper of another error.
func NewGeneralErrorWrapper(err error, msg string, args ...any) *GeneralError {
	return &GeneralError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (ge *GeneralError) Error() string {
	if ge.err != nil {
		return fmt.Sprintf("%s # Error wrap: %s", ge.message, ge.err.Error())
	}

	return ge.message
}

// Unwrap - return the wrapped error, if any.
func (ge *GeneralError) Unwrap() error {
	return ge.err
}

// DATABASE ERROR

// DatabaseError - connection level database error.
// Code is the engine result code when the failure came from the engine, 0 otherwise.
type DatabaseError struct {
	message string
	Code    int
	err     error
}

// NewDatabaseError - DatabaseError constructor.
func NewDatabaseError(msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewDatabaseErrorWrapper - DatabaseError constructor for wrapper of another error.
func NewDatabaseErrorWrapper(err error, msg string, args ...any) *DatabaseError {
	return &DatabaseError{message: fmt.Sprintf(msg, args...), err: err}
}

// NewEngineDatabaseError - DatabaseError carrying the engine result code and message.
func NewEngineDatabaseError(code int, engineMsg string, msg string, args ...any) *DatabaseError {
	return &DatabaseError{
		message: fmt.Sprintf(msg, args...),
		Code:    code,
		err:     errors.Errorf("engine error [%d]: %s", code, engineMsg),
	}
}

// Error - return the error string.
func (ge *DatabaseError) Error() string {
	if ge.err != nil {
		return fmt.Sprintf("%s: %s", ge.message, ge.err.Error())
	}

	return ge.message
}

// Unwrap - return the wrapped error, if any.
func (ge *DatabaseError) Unwrap() error {
	return ge.err
}
