package sqlitedb

import (
	"github.com/pkg/errors"

	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
)

// Causes carried by usage errors, reachable with errors.Is.
var (
	// ErrNoRow - a column was read while no row is loaded.
	ErrNoRow = errors.New("no row loaded")
	// ErrColumnRange - the column index is outside the current row.
	ErrColumnRange = errors.New("column index out of range")
	// ErrConnClosed - the owning connection is closed.
	ErrConnClosed = errors.New("connection closed")
	// ErrUnexpectedRow - a statement executed for its side effects produced a row.
	ErrUnexpectedRow = errors.New("statement returned a row")
	// ErrResetRequired - the statement already ran to completion and must be Reset before it runs again.
	ErrResetRequired = errors.New("statement is done, Reset required")
	// ErrInvalidStatement - the statement failed to compile or step and can only be finalized.
	ErrInvalidStatement = errors.New("statement is invalid")
	// ErrFinalized - the statement was already finalized.
	ErrFinalized = errors.New("statement is finalized")
	// ErrUnknownStatement - no prepared statement is registered under the name.
	ErrUnknownStatement = errors.New("unknown prepared statement")
	// ErrUnsupportedType - the Go value has no engine representation.
	ErrUnsupportedType = errors.New("unsupported value type")
)

func usageError(cause error, sql string) error {
	return errorx.NewStatementErrorWrapper(cause, errorx.KindUsage, ResultMisuse, cause.Error(), sql)
}

func usageErrorf(cause error, sql, format string, args ...any) error {
	wrapped := errors.WithMessagef(cause, format, args...)

	return errorx.NewStatementErrorWrapper(wrapped, errorx.KindUsage, ResultMisuse, wrapped.Error(), sql)
}
