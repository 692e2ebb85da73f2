package sqlitedb

import (
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"

	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

// Step - advance the statement by one row.
//
// Returns:
//   - RowAvailable: a row is loaded, the statement is HasRow.
//   - Exhausted: no more rows, the statement is Done. Stepping a Done statement returns Exhausted again
//     without running it; Reset re-runs it.
//   - Failed: with a StepError carrying the engine code and message. The engine statement is released
//     and the statement is Invalid. On an Invalid or Finalized statement, Failed comes with a UsageError.
func (s *Statement) Step() (StepResult, error) {
	if s == nil {
		return Failed, s.unusable()
	}

	switch s.state {
	case StateDone:
		return Exhausted, nil
	case StatePrepared, StateHasRow:
	default:
		return Failed, s.unusable()
	}

	switch rc := sqlite3.Xsqlite3_step(s.conn.tls, s.handle); rc {
	case sqlite3.SQLITE_ROW:
		s.state = StateHasRow
		return RowAvailable, nil
	case sqlite3.SQLITE_DONE:
		s.state = StateDone
		return Exhausted, nil
	default:
		code, msg := s.conn.errCodeMsg()
		if code == ResultOK {
			code, msg = int(rc), errstr(s.conn.tls, rc)
		}

		err := errorx.NewStatementError(errorx.KindStep, code, msg, s.sql)
		logx.GetLogger().LogError(s.ctx, fmt.Sprintf("Statement %s failed to step", s.id), err)
		s.release(err)

		return Failed, err
	}
}

// Next - step and report whether a row is loaded.
//
// After Next returns false, Err tells exhaustion (nil) from failure.
//
// Example Usage:
//
//	for stmt.Next() {
//		id, _ := stmt.ColumnInt64(0)
//		...
//	}
//	if err := stmt.Err(); err != nil {
//		return err
//	}
func (s *Statement) Next() bool {
	if s == nil {
		return false
	}

	result, err := s.Step()
	s.err = err

	return result == RowAvailable
}

// Err - the error of the last Next, nil if it loaded a row or exhausted the statement.
func (s *Statement) Err() error {
	if s == nil {
		return nil
	}

	return s.err
}

// ExecuteStatement - run a statement that produces no rows, such as INSERT, UPDATE, DELETE or DDL.
// A row coming back is a UsageError wrapping ErrUnexpectedRow and leaves the statement HasRow.
// A statement already Done is not run again: the call is a UsageError wrapping ErrResetRequired.
func (s *Statement) ExecuteStatement() error {
	if s != nil && s.state == StateDone {
		return usageErrorf(ErrResetRequired, s.sql, "execute")
	}

	result, err := s.Step()

	switch result {
	case Exhausted:
		return nil
	case RowAvailable:
		return usageErrorf(ErrUnexpectedRow, s.sql, "execute")
	default:
		return err
	}
}

// Reset - rewind the statement to Prepared so it can be re-bound and re-run. Bound values are kept.
func (s *Statement) Reset() error {
	if s == nil || !s.state.hasHandle() {
		return s.unusable()
	}

	rc := sqlite3.Xsqlite3_reset(s.conn.tls, s.handle)
	s.state = StatePrepared
	s.err = nil

	if rc != sqlite3.SQLITE_OK {
		code, msg := s.conn.errCodeMsg()
		return errorx.NewStatementError(errorx.KindStep, code, msg, s.sql)
	}

	return nil
}

// StepAndReset - step once, then Reset. Used to run the same statement with new bindings in a loop.
func (s *Statement) StepAndReset() (StepResult, error) {
	result, err := s.Step()
	if result == Failed {
		return result, err
	}

	if err := s.Reset(); err != nil {
		return Failed, err
	}

	return result, nil
}
