package sqlitedb

import (
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	sqlite3 "modernc.org/sqlite/lib"
)

// Engine result codes surfaced in errors.
const (
	ResultOK     = sqlite3.SQLITE_OK
	ResultError  = sqlite3.SQLITE_ERROR
	ResultBusy   = sqlite3.SQLITE_BUSY
	ResultLocked = sqlite3.SQLITE_LOCKED
	ResultNoMem  = sqlite3.SQLITE_NOMEM
	ResultMisuse = sqlite3.SQLITE_MISUSE
	ResultRange  = sqlite3.SQLITE_RANGE
	ResultRow    = sqlite3.SQLITE_ROW
	ResultDone   = sqlite3.SQLITE_DONE

	ResultConstraint = sqlite3.SQLITE_CONSTRAINT
	ResultReadOnly   = sqlite3.SQLITE_READONLY
)

// ColumnType is the engine's dynamic storage class of a column value in the current row.
type ColumnType int

const (
	ColumnTypeInteger ColumnType = sqlite3.SQLITE_INTEGER
	ColumnTypeFloat   ColumnType = sqlite3.SQLITE_FLOAT
	ColumnTypeText    ColumnType = sqlite3.SQLITE_TEXT
	ColumnTypeBlob    ColumnType = sqlite3.SQLITE_BLOB
	ColumnTypeNull    ColumnType = sqlite3.SQLITE_NULL
)

func (t ColumnType) String() string {
	switch t {
	case ColumnTypeInteger:
		return "INTEGER"
	case ColumnTypeFloat:
		return "FLOAT"
	case ColumnTypeText:
		return "TEXT"
	case ColumnTypeBlob:
		return "BLOB"
	case ColumnTypeNull:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// sqliteStatic tells the engine the bound buffer outlives the binding; the statement frees it itself.
const sqliteStatic uintptr = 0

func malloc(tls *libc.TLS, n types.Size_t) uintptr {
	if n == 0 {
		n = 1
	}

	return libc.Xmalloc(tls, n)
}

func free(tls *libc.TLS, p uintptr) {
	if p != 0 {
		libc.Xfree(tls, p)
	}
}

// cBytes copies b into engine memory. The caller frees the result.
func cBytes(tls *libc.TLS, b []byte) uintptr {
	p := malloc(tls, types.Size_t(len(b)))
	if p == 0 {
		return 0
	}

	if len(b) > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), len(b)), b)
	}

	return p
}

// goBytes copies n bytes of engine memory at p into a new Go slice.
func goBytes(p uintptr, n int) []byte {
	if p == 0 || n <= 0 {
		return nil
	}

	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))

	return out
}

// errstr returns the engine's generic description of a result code.
func errstr(tls *libc.TLS, rc int32) string {
	return libc.GoString(sqlite3.Xsqlite3_errstr(tls, rc))
}
