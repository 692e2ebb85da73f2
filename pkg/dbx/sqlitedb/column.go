package sqlitedb

import (
	"fmt"
	"time"

	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
	"github.com/marcodd23/go-micro-sqlite/pkg/utilx/timex"
)

var _ dbx.RowScan = (*Statement)(nil)

// Column indexes are 0-based. Values are read from the row loaded by the last Step and converted by the engine
// when the stored type differs: text read as a number yields its numeric prefix, NULL reads as 0, "" or nil.
// Outside HasRow every fetch returns the zero value and a UsageError wrapping ErrNoRow.

// ColumnFloat64 - column value as a float64.
func (s *Statement) ColumnFloat64(index int) (float64, error) {
	if err := s.checkColumn(index); err != nil {
		return 0, err
	}

	return sqlite3.Xsqlite3_column_double(s.conn.tls, s.handle, int32(index)), nil
}

// ColumnInt32 - column value as an int32. Larger integers are truncated to their low 32 bits.
func (s *Statement) ColumnInt32(index int) (int32, error) {
	if err := s.checkColumn(index); err != nil {
		return 0, err
	}

	return sqlite3.Xsqlite3_column_int(s.conn.tls, s.handle, int32(index)), nil
}

// ColumnInt64 - column value as an int64.
func (s *Statement) ColumnInt64(index int) (int64, error) {
	if err := s.checkColumn(index); err != nil {
		return 0, err
	}

	return sqlite3.Xsqlite3_column_int64(s.conn.tls, s.handle, int32(index)), nil
}

// ColumnText - column value as a string.
func (s *Statement) ColumnText(index int) (string, error) {
	if err := s.checkColumn(index); err != nil {
		return "", err
	}

	return s.columnText(index), nil
}

// ColumnBlob - column value as a copy of its bytes, nil for NULL.
func (s *Statement) ColumnBlob(index int) ([]byte, error) {
	if err := s.checkColumn(index); err != nil {
		return nil, err
	}

	return s.columnBlob(index), nil
}

// ColumnTime - column value as a UTC time.
//
// INTEGER and FLOAT values are Unix epoch seconds, fractions kept. NULL is the zero time. TEXT is parsed with
// the engine's datetime formats (timex.EngineTimeLayouts), falling back to its numeric value as epoch seconds.
// A value outside years 1 through 9999, NaN or an infinity is a UsageError wrapping timex.ErrOutOfRange.
func (s *Statement) ColumnTime(index int) (time.Time, error) {
	if err := s.checkColumn(index); err != nil {
		return time.Time{}, err
	}

	var (
		t   time.Time
		err error
	)

	switch s.columnType(index) {
	case ColumnTypeNull:
		return time.Time{}, nil
	case ColumnTypeInteger:
		t, err = timex.FromUnixInt(sqlite3.Xsqlite3_column_int64(s.conn.tls, s.handle, int32(index)))
	case ColumnTypeText:
		if t, err = timex.ParseTimeWithMultipleLayouts(s.columnText(index), timex.EngineTimeLayouts...); err != nil {
			t, err = timex.FromUnixSeconds(sqlite3.Xsqlite3_column_double(s.conn.tls, s.handle, int32(index)))
		}
	default:
		t, err = timex.FromUnixSeconds(sqlite3.Xsqlite3_column_double(s.conn.tls, s.handle, int32(index)))
	}

	if err != nil {
		return time.Time{}, usageErrorf(err, s.sql, "column %d as time", index)
	}

	return t, nil
}

// ColumnType - storage class of the column value in the current row.
func (s *Statement) ColumnType(index int) (ColumnType, error) {
	if err := s.checkColumn(index); err != nil {
		return ColumnTypeNull, err
	}

	return s.columnType(index), nil
}

// ColumnIsNull - reports whether the column value is NULL.
func (s *Statement) ColumnIsNull(index int) (bool, error) {
	t, err := s.ColumnType(index)

	return t == ColumnTypeNull, err
}

// ColumnCount - number of result columns. 0 for statements that return no data or have no engine handle.
func (s *Statement) ColumnCount() int {
	if s == nil || s.handle == 0 {
		return 0
	}

	return int(sqlite3.Xsqlite3_column_count(s.conn.tls, s.handle))
}

// ColumnName - name of the result column, available in every phase with a live handle.
func (s *Statement) ColumnName(index int) (string, error) {
	if s == nil || s.handle == 0 {
		return "", s.unusable()
	}

	if n := s.ColumnCount(); index < 0 || index >= n {
		return "", usageErrorf(ErrColumnRange, s.sql, "column %d of %d", index, n)
	}

	return libc.GoString(sqlite3.Xsqlite3_column_name(s.conn.tls, s.handle, int32(index))), nil
}

// ColumnNames - names of all result columns.
func (s *Statement) ColumnNames() []string {
	n := s.ColumnCount()
	names := make([]string, 0, n)

	for i := 0; i < n; i++ {
		names = append(names, libc.GoString(sqlite3.Xsqlite3_column_name(s.conn.tls, s.handle, int32(i))))
	}

	return names
}

// Values - the current row as int64, float64, string, []byte or nil, one per column.
func (s *Statement) Values() ([]any, error) {
	if err := s.checkRow("Values"); err != nil {
		return nil, err
	}

	n := s.dataCount()
	values := make([]any, n)

	for i := 0; i < n; i++ {
		values[i] = s.columnValue(i)
	}

	return values, nil
}

// Scan - copy the current row's columns, in order, into dest.
//
// Supported destinations: *int, *int32, *int64, *float32, *float64, *bool, *string, *[]byte, *time.Time
// and *any. A nil destination skips its column. Passing more destinations than columns is a UsageError
// wrapping ErrColumnRange.
func (s *Statement) Scan(dest ...any) error {
	if err := s.checkRow("Scan"); err != nil {
		return err
	}

	if n := s.dataCount(); len(dest) > n {
		return usageErrorf(ErrColumnRange, s.sql, "%d destinations for %d columns", len(dest), n)
	}

	for i, d := range dest {
		if err := s.scanColumn(i, d); err != nil {
			return err
		}
	}

	return nil
}

func (s *Statement) scanColumn(index int, dest any) error {
	tls, h, col := s.conn.tls, s.handle, int32(index)

	switch d := dest.(type) {
	case nil:
	case *int:
		*d = int(sqlite3.Xsqlite3_column_int64(tls, h, col))
	case *int32:
		*d = sqlite3.Xsqlite3_column_int(tls, h, col)
	case *int64:
		*d = sqlite3.Xsqlite3_column_int64(tls, h, col)
	case *float32:
		*d = float32(sqlite3.Xsqlite3_column_double(tls, h, col))
	case *float64:
		*d = sqlite3.Xsqlite3_column_double(tls, h, col)
	case *bool:
		*d = sqlite3.Xsqlite3_column_int64(tls, h, col) != 0
	case *string:
		*d = s.columnText(index)
	case *[]byte:
		*d = s.columnBlob(index)
	case *time.Time:
		t, err := s.ColumnTime(index)
		if err != nil {
			return err
		}
		*d = t
	case *any:
		*d = s.columnValue(index)
	default:
		return usageErrorf(ErrUnsupportedType, s.sql, "scan column %d into %T", index, dest)
	}

	return nil
}

func (s *Statement) checkRow(op string) error {
	if s == nil {
		return s.unusable()
	}

	var err error

	switch s.state {
	case StateHasRow:
		return nil
	case StateInvalid, StateFinalized:
		err = s.unusable()
	default:
		err = usageErrorf(ErrNoRow, s.sql, "%s in state %s", op, s.state)
	}

	logx.GetLogger().LogWarning(s.ctx, fmt.Sprintf("Statement %s: %s called without a loaded row", s.id, op), err)

	return err
}

func (s *Statement) checkColumn(index int) error {
	if err := s.checkRow(fmt.Sprintf("column %d fetch", index)); err != nil {
		return err
	}

	if n := s.dataCount(); index < 0 || index >= n {
		return usageErrorf(ErrColumnRange, s.sql, "column %d of %d", index, n)
	}

	return nil
}

func (s *Statement) dataCount() int {
	return int(sqlite3.Xsqlite3_data_count(s.conn.tls, s.handle))
}

func (s *Statement) columnType(index int) ColumnType {
	return ColumnType(sqlite3.Xsqlite3_column_type(s.conn.tls, s.handle, int32(index)))
}

// columnText reads the text first, then its byte length, as the engine requires for a stable length.
func (s *Statement) columnText(index int) string {
	p := sqlite3.Xsqlite3_column_text(s.conn.tls, s.handle, int32(index))
	n := sqlite3.Xsqlite3_column_bytes(s.conn.tls, s.handle, int32(index))

	return string(goBytes(p, int(n)))
}

func (s *Statement) columnBlob(index int) []byte {
	if s.columnType(index) == ColumnTypeNull {
		return nil
	}

	p := sqlite3.Xsqlite3_column_blob(s.conn.tls, s.handle, int32(index))
	n := sqlite3.Xsqlite3_column_bytes(s.conn.tls, s.handle, int32(index))

	if p == 0 || n == 0 {
		return []byte{}
	}

	return goBytes(p, int(n))
}

func (s *Statement) columnValue(index int) any {
	switch s.columnType(index) {
	case ColumnTypeInteger:
		return sqlite3.Xsqlite3_column_int64(s.conn.tls, s.handle, int32(index))
	case ColumnTypeFloat:
		return sqlite3.Xsqlite3_column_double(s.conn.tls, s.handle, int32(index))
	case ColumnTypeText:
		return s.columnText(index)
	case ColumnTypeBlob:
		return s.columnBlob(index)
	default:
		return nil
	}
}
