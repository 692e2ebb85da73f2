package errorx

import (
	"fmt"

	"github.com/pkg/errors"
)

// StatementErrorKind classifies a failure of a prepared statement operation.
type StatementErrorKind int

const (
	// KindCompilation - the SQL text could not be compiled against the connection.
	KindCompilation StatementErrorKind = iota + 1
	// KindBind - a parameter could not be bound (bad index or wrong phase).
	KindBind
	// KindStep - the engine reported a fault while advancing the cursor.
	KindStep
	// KindFinalize - the engine reported an error while releasing the statement.
	KindFinalize
	// KindUsage - the operation was invoked outside its valid lifecycle phase.
	KindUsage
)

// Sentinels matched by errors.Is against any *StatementError of the same kind.
var (
	ErrCompilation = errors.New("compilation error")
	ErrBind        = errors.New("bind error")
	ErrStep        = errors.New("step error")
	ErrFinalize    = errors.New("finalize error")
	ErrUsage       = errors.New("usage error")
)

var kindSentinels = map[StatementErrorKind]error{
	KindCompilation: ErrCompilation,
	KindBind:        ErrBind,
	KindStep:        ErrStep,
	KindFinalize:    ErrFinalize,
	KindUsage:       ErrUsage,
}

// String - return the kind name.
func (k StatementErrorKind) String() string {
	switch k {
	case KindCompilation:
		return "CompilationError"
	case KindBind:
		return "BindError"
	case KindStep:
		return "StepError"
	case KindFinalize:
		return "FinalizeError"
	case KindUsage:
		return "UsageError"
	default:
		return fmt.Sprintf("StatementErrorKind(%d)", int(k))
	}
}

// StatementError is returned by every failing statement operation.
//
// Code and Message are the engine's result code and diagnostic, carried as reported.
// Usage errors are raised by the library itself and use the engine's misuse code.
// SQL is the text of the statement the operation was invoked on.
type StatementError struct {
	Kind    StatementErrorKind
	Code    int
	Message string
	SQL     string
	cause   error
}

// NewStatementError - StatementError constructor.
func NewStatementError(kind StatementErrorKind, code int, message, sql string) *StatementError {
	return &StatementError{Kind: kind, Code: code, Message: message, SQL: sql}
}

// NewStatementErrorWrapper - StatementError constructor keeping a cause reachable through errors.Is / errors.As.
func NewStatementErrorWrapper(cause error, kind StatementErrorKind, code int, message, sql string) *StatementError {
	return &StatementError{Kind: kind, Code: code, Message: message, SQL: sql, cause: cause}
}

// Error - return the error string.
func (se *StatementError) Error() string {
	return fmt.Sprintf("%s [%d]: %s (sql: %q)", se.Kind, se.Code, se.Message, se.SQL)
}

// Is - reports whether target is the sentinel of this error kind.
func (se *StatementError) Is(target error) bool {
	return target == kindSentinels[se.Kind]
}

// Unwrap - return the cause, if any.
func (se *StatementError) Unwrap() error {
	return se.cause
}

// PrimaryCode - the engine's primary result code (extended code bits masked off).
func (se *StatementError) PrimaryCode() int {
	return se.Code & 0xff
}

// AsStatementError - extract a *StatementError from the error chain.
func AsStatementError(err error) (*StatementError, bool) {
	var se *StatementError
	if errors.As(err, &se) {
		return se, true
	}

	return nil, false
}

// IsStatementErrorKind - reports whether err carries a StatementError of the given kind.
func IsStatementErrorKind(err error, kind StatementErrorKind) bool {
	se, ok := AsStatementError(err)

	return ok && se.Kind == kind
}
