package sqlitedb

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

// Statement - one compiled SQL statement and its lifecycle.
//
//	Prepared --Step(row)--> HasRow --Step(row)--> HasRow
//	Prepared|HasRow --Step(done)--> Done --Step--> Done
//	Prepared|HasRow --Step(fault)--> Invalid
//	Prepared|HasRow|Done --Reset--> Prepared
//	any --Finalize--> Finalized
//
// Parameters can be bound only in Prepared, columns read only in HasRow.
// A Statement is not safe for concurrent use and must not outlive its Conn.
type Statement struct {
	id     uuid.UUID
	ctx    context.Context
	conn   *Conn
	sql    string
	handle uintptr
	state  State

	// engine buffers of text and blob parameters, by parameter index
	textAllocs map[int]uintptr

	// error of the last Next
	err error
	// why the statement became Invalid or Finalized without a Finalize call
	failure error
}

// NewStatement - compile sql on conn.
//
// The returned statement is never nil. On failure it is in the Invalid state and every later operation on it
// returns a UsageError without reaching the engine; Finalize is still safe.
//
// Arguments:
//   - ctx: correlates the statement's log lines. It is not used for cancellation.
//   - conn: the owning connection, which must stay open while the statement is used.
//   - sql: exactly one SQL statement; `?`, `?NNN`, `:name`, `@name` and `$name` placeholders are allowed.
//
// Returns:
//   - *Statement: the statement, Prepared on success.
//   - error: a CompilationError carrying the engine code and message. Empty SQL, more than one statement,
//     a nil or closed connection also yield a CompilationError.
func NewStatement(ctx context.Context, conn *Conn, sql string) (*Statement, error) {
	stmt := &Statement{
		id:         uuid.New(),
		ctx:        ctx,
		conn:       conn,
		sql:        sql,
		state:      StateInvalid,
		textAllocs: make(map[int]uintptr),
	}

	var err error

	switch {
	case conn == nil:
		err = errorx.NewStatementError(errorx.KindCompilation, ResultMisuse, "no database connection", sql)
	case strings.TrimSpace(sql) == "":
		err = errorx.NewStatementError(errorx.KindCompilation, ResultMisuse, "empty SQL", sql)
	default:
		err = conn.compile(stmt)
	}

	if err != nil {
		stmt.failure = err
		logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Statement %s failed to compile: %s", stmt.id, err))

		return stmt, err
	}

	stmt.state = StatePrepared
	logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Compiled statement %s on connection %s: %s", stmt.id, conn.id, sql))

	return stmt, nil
}

// ID - statement id used in log lines.
func (s *Statement) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}

	return s.id
}

// SQL - the text the statement was compiled from.
func (s *Statement) SQL() string {
	if s == nil {
		return ""
	}

	return s.sql
}

// State - current lifecycle phase.
func (s *Statement) State() State {
	if s == nil {
		return StateFinalized
	}

	return s.state
}

// Finalize - release the engine statement. Safe to call any number of times, in any state.
//
// Bound text and blob buffers are freed even when the engine reports an error, which is returned as a
// FinalizeError. The statement is Finalized afterwards in every case.
func (s *Statement) Finalize() error {
	if s == nil || s.state == StateFinalized {
		return nil
	}

	if s.handle == 0 {
		s.state = StateFinalized
		s.freeAllocs()

		return nil
	}

	rc := sqlite3.Xsqlite3_finalize(s.conn.tls, s.handle)

	var err error
	if rc != sqlite3.SQLITE_OK {
		code, msg := s.conn.errCodeMsg()
		if code == ResultOK {
			code, msg = int(rc), errstr(s.conn.tls, rc)
		}

		err = errorx.NewStatementError(errorx.KindFinalize, code, msg, s.sql)
	}

	s.handle = 0
	s.state = StateFinalized
	s.freeAllocs()
	s.conn.unregister(s)

	logx.GetLogger().LogDebug(s.ctx, fmt.Sprintf("Finalized statement %s", s.id))

	return err
}

// release drops the engine handle outside Finalize, leaving the statement unusable with cause.
func (s *Statement) release(cause error) {
	if s.handle != 0 {
		// the step or close that led here already carries the engine error
		sqlite3.Xsqlite3_finalize(s.conn.tls, s.handle)
		s.handle = 0
	}

	s.freeAllocs()
	s.conn.unregister(s)
	s.failure = cause

	if errors.Is(cause, ErrConnClosed) {
		s.state = StateFinalized
	} else {
		s.state = StateInvalid
	}
}

// unusable is the error returned by every operation on an Invalid or Finalized statement.
func (s *Statement) unusable() error {
	if s == nil {
		return usageError(ErrFinalized, "")
	}

	switch {
	case s.state == StateInvalid:
		if s.failure != nil {
			return usageErrorf(ErrInvalidStatement, s.sql, "earlier failure: %s", s.failure)
		}

		return usageError(ErrInvalidStatement, s.sql)
	case s.failure != nil && errors.Is(s.failure, ErrConnClosed):
		return usageError(ErrConnClosed, s.sql)
	default:
		return usageError(ErrFinalized, s.sql)
	}
}

func (s *Statement) freeAllocs() {
	if len(s.textAllocs) == 0 {
		return
	}

	for index, p := range s.textAllocs {
		free(s.conn.tls, p)
		delete(s.textAllocs, index)
	}
}
