package sqlitedb

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
)

// Parameter indexes are 1-based. A value bound to an index replaces the previous value at that index only,
// and survives Reset.

// BindText - bind a UTF-8 string. The empty string binds as empty text, not NULL.
func (s *Statement) BindText(index int, value string) error {
	if err := s.checkParam(index); err != nil {
		return err
	}

	p := cBytes(s.conn.tls, []byte(value))
	if p == 0 {
		return errorx.NewStatementError(errorx.KindBind, ResultNoMem, errstr(s.conn.tls, ResultNoMem), s.sql)
	}

	rc := sqlite3.Xsqlite3_bind_text(s.conn.tls, s.handle, int32(index), p, int32(len(value)), sqliteStatic)

	return s.bound(rc, index, p)
}

// BindBlob - bind raw bytes. A nil slice binds NULL, an empty one a zero-length blob.
func (s *Statement) BindBlob(index int, value []byte) error {
	if value == nil {
		return s.BindNull(index)
	}

	if err := s.checkParam(index); err != nil {
		return err
	}

	p := cBytes(s.conn.tls, value)
	if p == 0 {
		return errorx.NewStatementError(errorx.KindBind, ResultNoMem, errstr(s.conn.tls, ResultNoMem), s.sql)
	}

	rc := sqlite3.Xsqlite3_bind_blob(s.conn.tls, s.handle, int32(index), p, int32(len(value)), sqliteStatic)

	return s.bound(rc, index, p)
}

// BindFloat64 - bind a double precision float.
func (s *Statement) BindFloat64(index int, value float64) error {
	if err := s.checkParam(index); err != nil {
		return err
	}

	return s.bound(sqlite3.Xsqlite3_bind_double(s.conn.tls, s.handle, int32(index), value), index, 0)
}

// BindInt32 - bind a 32-bit integer.
func (s *Statement) BindInt32(index int, value int32) error {
	if err := s.checkParam(index); err != nil {
		return err
	}

	return s.bound(sqlite3.Xsqlite3_bind_int(s.conn.tls, s.handle, int32(index), value), index, 0)
}

// BindInt64 - bind a 64-bit integer.
func (s *Statement) BindInt64(index int, value int64) error {
	if err := s.checkParam(index); err != nil {
		return err
	}

	return s.bound(sqlite3.Xsqlite3_bind_int64(s.conn.tls, s.handle, int32(index), value), index, 0)
}

// BindNull - bind SQL NULL.
func (s *Statement) BindNull(index int) error {
	if err := s.checkParam(index); err != nil {
		return err
	}

	return s.bound(sqlite3.Xsqlite3_bind_null(s.conn.tls, s.handle, int32(index)), index, 0)
}

// BindBool - bind 1 for true and 0 for false.
func (s *Statement) BindBool(index int, value bool) error {
	if value {
		return s.BindInt64(index, 1)
	}

	return s.BindInt64(index, 0)
}

// BindTime - bind t as Unix epoch seconds, the representation ColumnTime reads back.
// Whole seconds bind as an integer, sub-second times as a float. The zero time binds NULL.
func (s *Statement) BindTime(index int, t time.Time) error {
	switch {
	case t.IsZero():
		return s.BindNull(index)
	case t.Nanosecond() == 0:
		return s.BindInt64(index, t.Unix())
	default:
		return s.BindFloat64(index, float64(t.UnixNano())/float64(time.Second))
	}
}

// BindArgs - bind args to parameters 1..len(args) by their Go type.
//
// Supported: nil, bool, every int and uint kind (uint64 up to math.MaxInt64), float32, float64,
// string, []byte and time.Time. Any other type is a BindError wrapping ErrUnsupportedType.
func (s *Statement) BindArgs(args ...any) error {
	if err := s.checkBindable(); err != nil {
		return err
	}

	for i, arg := range args {
		if err := s.bindValue(i+1, arg); err != nil {
			return err
		}
	}

	return nil
}

func (s *Statement) bindValue(index int, arg any) error {
	switch v := arg.(type) {
	case nil:
		return s.BindNull(index)
	case bool:
		return s.BindBool(index, v)
	case int:
		return s.BindInt64(index, int64(v))
	case int8:
		return s.BindInt64(index, int64(v))
	case int16:
		return s.BindInt64(index, int64(v))
	case int32:
		return s.BindInt32(index, v)
	case int64:
		return s.BindInt64(index, v)
	case uint:
		return s.bindUint64(index, uint64(v))
	case uint8:
		return s.BindInt64(index, int64(v))
	case uint16:
		return s.BindInt64(index, int64(v))
	case uint32:
		return s.BindInt64(index, int64(v))
	case uint64:
		return s.bindUint64(index, v)
	case float32:
		return s.BindFloat64(index, float64(v))
	case float64:
		return s.BindFloat64(index, v)
	case string:
		return s.BindText(index, v)
	case []byte:
		return s.BindBlob(index, v)
	case time.Time:
		return s.BindTime(index, v)
	default:
		cause := errors.WithMessagef(ErrUnsupportedType, "parameter %d of type %T", index, arg)

		return errorx.NewStatementErrorWrapper(cause, errorx.KindBind, ResultMisuse, cause.Error(), s.SQL())
	}
}

func (s *Statement) bindUint64(index int, v uint64) error {
	if v > math.MaxInt64 {
		cause := errors.WithMessagef(ErrUnsupportedType, "parameter %d value %d overflows int64", index, v)

		return errorx.NewStatementErrorWrapper(cause, errorx.KindBind, ResultRange, cause.Error(), s.SQL())
	}

	return s.BindInt64(index, int64(v))
}

// ClearBindings - reset every parameter to NULL.
func (s *Statement) ClearBindings() error {
	if err := s.checkBindable(); err != nil {
		return err
	}

	if rc := sqlite3.Xsqlite3_clear_bindings(s.conn.tls, s.handle); rc != sqlite3.SQLITE_OK {
		code, msg := s.conn.errCodeMsg()
		return errorx.NewStatementError(errorx.KindBind, code, msg, s.sql)
	}

	s.freeAllocs()

	return nil
}

// BindParameterCount - the largest parameter index of the statement, 0 once it has no engine handle.
func (s *Statement) BindParameterCount() int {
	if s == nil || s.handle == 0 {
		return 0
	}

	return int(sqlite3.Xsqlite3_bind_parameter_count(s.conn.tls, s.handle))
}

// checkParam is checkBindable plus a range check of index against the engine's 32-bit parameter indexes.
func (s *Statement) checkParam(index int) error {
	if err := s.checkBindable(); err != nil {
		return err
	}

	if index < 1 || index > math.MaxInt32 {
		return errorx.NewStatementError(errorx.KindBind, ResultRange,
			fmt.Sprintf("%s: parameter %d", errstr(s.conn.tls, ResultRange), index), s.sql)
	}

	return nil
}

func (s *Statement) checkBindable() error {
	if s == nil {
		return usageError(ErrFinalized, "")
	}

	switch s.state {
	case StatePrepared:
		return nil
	case StateHasRow, StateDone:
		return errorx.NewStatementError(errorx.KindBind, ResultMisuse,
			"parameters cannot be bound in state "+s.state.String()+", Reset the statement first", s.sql)
	default:
		return s.unusable()
	}
}

// bound turns a bind result code into an error and tracks the engine buffer p bound at index.
// On success the buffer previously bound at index is freed; on failure p itself is.
func (s *Statement) bound(rc int32, index int, p uintptr) error {
	if rc != sqlite3.SQLITE_OK {
		free(s.conn.tls, p)

		code, msg := s.conn.errCodeMsg()
		if code&0xff != int(rc)&0xff {
			code, msg = int(rc), errstr(s.conn.tls, rc)
		}

		return errorx.NewStatementError(errorx.KindBind, code, msg, s.sql)
	}

	if old, ok := s.textAllocs[index]; ok {
		free(s.conn.tls, old)
		delete(s.textAllocs, index)
	}

	if p != 0 {
		s.textAllocs[index] = p
	}

	return nil
}
