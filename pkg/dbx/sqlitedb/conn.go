package sqlitedb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"modernc.org/libc"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

//###################################
//#    Conn - embedded database.    #
//###################################

// Conn - one open connection to an embedded SQLite database.
// It Implements dbx.InstanceManager
//
// A Conn and the statements compiled on it must be driven by one goroutine at a time.
// Close may be called from a shutdown path: it is serialized against statement registration
// and finalizes every statement still live.
type Conn struct {
	id     uuid.UUID
	tls    *libc.TLS
	db     uintptr
	dbConf dbx.ConnConfig
	named  map[string]string

	mu     sync.Mutex
	live   map[*Statement]struct{}
	closed bool
}

var _ dbx.InstanceManager = (*Conn)(nil)

// Open - open the database described by dbConf.
//
// Every prepared statement passed is compiled once and released, so a registration that does not compile
// fails Open instead of the first PrepareNamed call.
//
// Arguments:
//   - ctx: used to correlate log lines.
//   - dbConf: database path and open mode.
//   - preparedStatements: named queries later compiled with PrepareNamed.
//
// Returns:
//   - *Conn: the open connection.
//   - error: a *errorx.DatabaseError carrying the engine code when the engine refused to open the database,
//     or the CompilationError of the first registered statement that does not compile.
//
// Example Usage:
//
//	conn, err := sqlitedb.Open(ctx, dbx.InMemoryConnConfig(),
//		dbx.NewPreparedStatement("insertUser", "INSERT INTO users (id, name) VALUES (?, ?)"))
//	if err != nil {
//		return err
//	}
//	defer conn.Close(ctx)
func Open(ctx context.Context, dbConf dbx.ConnConfig, preparedStatements ...dbx.PreparedStatement) (*Conn, error) {
	if dbConf.Path == "" {
		return nil, errorx.NewDatabaseError("Error opening database: Path is EMPTY")
	}

	named, err := dbx.PreparedStatementsByName(preparedStatements...)
	if err != nil {
		return nil, errorx.NewDatabaseErrorWrapper(err, "Error registering prepared statements")
	}

	conn := &Conn{
		id:     uuid.New(),
		tls:    libc.NewTLS(),
		dbConf: dbConf,
		named:  named,
		live:   make(map[*Statement]struct{}),
	}

	if err := conn.open(); err != nil {
		conn.tls.Close()
		return nil, err
	}

	for _, ps := range preparedStatements {
		if err := conn.verify(ctx, ps); err != nil {
			_ = conn.Close(ctx)
			return nil, err
		}
	}

	logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Opened database connection %s: PATH=%s, READONLY=%t, PREPARED_STATEMENTS=%d",
		conn.id, dbConf.Path, dbConf.ReadOnly, len(named)))

	return conn, nil
}

func openFlags(dbConf dbx.ConnConfig) int32 {
	flags := int32(sqlite3.SQLITE_OPEN_URI | sqlite3.SQLITE_OPEN_FULLMUTEX)

	switch {
	case dbConf.ReadOnly:
		flags |= sqlite3.SQLITE_OPEN_READONLY
	case dbConf.CreateIfMissing:
		flags |= sqlite3.SQLITE_OPEN_READWRITE | sqlite3.SQLITE_OPEN_CREATE
	default:
		flags |= sqlite3.SQLITE_OPEN_READWRITE
	}

	return flags
}

func (c *Conn) open() error {
	path, err := libc.CString(c.dbConf.Path)
	if err != nil {
		return errorx.NewDatabaseErrorWrapper(err, "Error opening database '%s'", c.dbConf.Path)
	}
	defer free(c.tls, path)

	ppDb := malloc(c.tls, ptrSize)
	if ppDb == 0 {
		return errorx.NewEngineDatabaseError(ResultNoMem, errstr(c.tls, ResultNoMem), "Error opening database '%s'", c.dbConf.Path)
	}
	defer free(c.tls, ppDb)

	*(*uintptr)(unsafe.Pointer(ppDb)) = 0

	rc := sqlite3.Xsqlite3_open_v2(c.tls, path, ppDb, openFlags(c.dbConf), 0)
	db := *(*uintptr)(unsafe.Pointer(ppDb))

	if rc != sqlite3.SQLITE_OK {
		msg := errstr(c.tls, rc)
		if db != 0 {
			msg = libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, db))
			sqlite3.Xsqlite3_close_v2(c.tls, db)
		}

		return errorx.NewEngineDatabaseError(int(rc), msg, "Error opening database '%s'", c.dbConf.Path)
	}

	c.db = db

	sqlite3.Xsqlite3_extended_result_codes(c.tls, db, libc.Bool32(true))

	if c.dbConf.BusyTimeoutMillis > 0 {
		sqlite3.Xsqlite3_busy_timeout(c.tls, db, int32(c.dbConf.BusyTimeoutMillis))
	}

	return nil
}

func (c *Conn) verify(ctx context.Context, ps dbx.PreparedStatement) error {
	stmt, err := NewStatement(ctx, c, ps.GetQuery())
	if err != nil {
		return errors.WithMessagef(err, "failed to prepare statement '%s'", ps.GetName())
	}

	return stmt.Finalize()
}

// ID - connection id used in log lines.
func (c *Conn) ID() uuid.UUID {
	return c.id
}

// GetConnectionConfig - the configuration the connection was opened with.
func (c *Conn) GetConnectionConfig() dbx.ConnConfig {
	return c.dbConf
}

// IsClosed - reports whether Close was called.
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// ErrCode - the extended result code of the most recent failed engine call.
func (c *Conn) ErrCode() int {
	if c.IsClosed() {
		return ResultMisuse
	}

	return int(sqlite3.Xsqlite3_extended_errcode(c.tls, c.db))
}

// ErrMsg - the engine's message for the most recent failed engine call.
func (c *Conn) ErrMsg() string {
	if c.IsClosed() {
		return ErrConnClosed.Error()
	}

	return libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
}

// Changes - rows modified by the most recent INSERT, UPDATE or DELETE. Statements of any other kind leave it
// unchanged.
func (c *Conn) Changes() int64 {
	if c.IsClosed() {
		return 0
	}

	return int64(sqlite3.Xsqlite3_changes(c.tls, c.db))
}

// LastInsertRowID - rowid of the most recent successful INSERT.
func (c *Conn) LastInsertRowID() int64 {
	if c.IsClosed() {
		return 0
	}

	return sqlite3.Xsqlite3_last_insert_rowid(c.tls, c.db)
}

// LiveStatements - number of compiled statements not yet finalized.
func (c *Conn) LiveStatements() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.live)
}

// Prepare - compile sql on this connection. See NewStatement.
func (c *Conn) Prepare(ctx context.Context, sql string) (*Statement, error) {
	return NewStatement(ctx, c, sql)
}

// PrepareNamed - compile the query registered under name when the connection was opened.
func (c *Conn) PrepareNamed(ctx context.Context, name string) (*Statement, error) {
	query, ok := c.named[name]
	if !ok {
		return nil, usageErrorf(ErrUnknownStatement, "", "statement '%s'", name)
	}

	return NewStatement(ctx, c, query)
}

// Exec - run a statement that returns no rows.
//
// Arguments:
//   - ctx: used to correlate log lines.
//   - execQuery: a single SQL statement with `?` placeholders.
//   - args: values bound, in order, to the placeholders (see Statement.BindArgs).
//
// Returns:
//   - int64: rows modified by the statement.
//   - error: the CompilationError, BindError or StepError raised while running it, or a UsageError
//     wrapping ErrUnexpectedRow if the statement produced a row.
func (c *Conn) Exec(ctx context.Context, execQuery string, args ...any) (int64, error) {
	var affected int64

	err := WithStatement(ctx, c, execQuery, func(stmt *Statement) error {
		if err := stmt.BindArgs(args...); err != nil {
			return err
		}

		mark := c.totalChanges()

		if err := stmt.ExecuteStatement(); err != nil {
			return err
		}

		affected = c.changesSince(mark)

		return nil
	})

	return affected, err
}

// QueryAndProcess - run a query and hand every row to processCallback while it is loaded.
// The first error returned by processCallback stops the iteration and is returned.
func (c *Conn) QueryAndProcess(ctx context.Context, processCallback func(row dbx.RowScan) error, query string, args ...any) error {
	return WithStatement(ctx, c, query, func(stmt *Statement) error {
		if err := stmt.BindArgs(args...); err != nil {
			return err
		}

		for stmt.Next() {
			if err := processCallback(stmt); err != nil {
				return errors.WithStack(err)
			}
		}

		return stmt.Err()
	})
}

// Close - finalize every live statement and close the database. A second call is a no-op.
//
// Statements still live are finalized and logged as leaked; any later operation on them fails with a
// UsageError wrapping ErrConnClosed.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return nil
	}

	c.closed = true
	leaked := make([]*Statement, 0, len(c.live))

	for stmt := range c.live {
		leaked = append(leaked, stmt)
	}

	c.live = make(map[*Statement]struct{})
	c.mu.Unlock()

	for _, stmt := range leaked {
		logx.GetLogger().LogWarning(ctx, fmt.Sprintf("Finalizing statement %s left open on connection %s: %s",
			stmt.id, c.id, stmt.sql))
		stmt.release(ErrConnClosed)
	}

	rc := sqlite3.Xsqlite3_close_v2(c.tls, c.db)

	var err error
	if rc != sqlite3.SQLITE_OK {
		err = errorx.NewEngineDatabaseError(int(rc), errstr(c.tls, rc), "Error closing database '%s'", c.dbConf.Path)
	}

	c.db = 0
	c.tls.Close()

	logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Closed database connection %s, finalized %d leaked statements", c.id, len(leaked)))

	return err
}

// compile runs the engine compiler on stmt.sql and registers the statement on success.
func (c *Conn) compile(stmt *Statement) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errorx.NewStatementErrorWrapper(ErrConnClosed, errorx.KindCompilation, ResultMisuse, ErrConnClosed.Error(), stmt.sql)
	}

	zSQL, err := libc.CString(stmt.sql)
	if err != nil {
		return errorx.NewStatementErrorWrapper(err, errorx.KindCompilation, ResultNoMem, err.Error(), stmt.sql)
	}
	defer free(c.tls, zSQL)

	handle, tail, err := c.prepareV2(zSQL, stmt.sql)
	if err != nil {
		return err
	}

	if handle == 0 {
		return errorx.NewStatementError(errorx.KindCompilation, ResultMisuse, "no SQL statement to compile", stmt.sql)
	}

	if strings.TrimSpace(libc.GoString(tail)) != "" {
		next, _, err := c.prepareV2(tail, stmt.sql)
		if err != nil {
			sqlite3.Xsqlite3_finalize(c.tls, handle)
			return err
		}

		if next != 0 {
			sqlite3.Xsqlite3_finalize(c.tls, next)
			sqlite3.Xsqlite3_finalize(c.tls, handle)

			return errorx.NewStatementError(errorx.KindCompilation, ResultMisuse,
				"only one SQL statement can be compiled at a time", stmt.sql)
		}
	}

	stmt.handle = handle
	c.live[stmt] = struct{}{}

	return nil
}

func (c *Conn) prepareV2(zSQL uintptr, sql string) (handle, tail uintptr, err error) {
	out := malloc(c.tls, 2*ptrSize)
	if out == 0 {
		return 0, 0, errorx.NewStatementError(errorx.KindCompilation, ResultNoMem, errstr(c.tls, ResultNoMem), sql)
	}
	defer free(c.tls, out)

	ppStmt, pzTail := out, out+uintptr(ptrSize)
	*(*uintptr)(unsafe.Pointer(ppStmt)) = 0
	*(*uintptr)(unsafe.Pointer(pzTail)) = 0

	rc := sqlite3.Xsqlite3_prepare_v2(c.tls, c.db, zSQL, -1, ppStmt, pzTail)
	handle = *(*uintptr)(unsafe.Pointer(ppStmt))

	if rc != sqlite3.SQLITE_OK {
		code, msg := int(sqlite3.Xsqlite3_extended_errcode(c.tls, c.db)), libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
		if handle != 0 {
			sqlite3.Xsqlite3_finalize(c.tls, handle)
		}

		return 0, 0, errorx.NewStatementError(errorx.KindCompilation, code, msg, sql)
	}

	return handle, *(*uintptr)(unsafe.Pointer(pzTail)), nil
}

// totalChanges is the running count of rows modified on the connection, used as a mark for changesSince.
func (c *Conn) totalChanges() int32 {
	return sqlite3.Xsqlite3_total_changes(c.tls, c.db)
}

// changesSince - rows modified by the statement run after mark was taken. sqlite3_changes keeps the count
// of the last INSERT, UPDATE or DELETE across DDL and SELECT, so an unmoved total reads as 0.
func (c *Conn) changesSince(mark int32) int64 {
	if c.totalChanges() == mark {
		return 0
	}

	return c.Changes()
}

func (c *Conn) unregister(stmt *Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.live, stmt)
}

// errCodeMsg reads the engine error of the last failed call without taking the registry lock.
func (c *Conn) errCodeMsg() (int, string) {
	return int(sqlite3.Xsqlite3_extended_errcode(c.tls, c.db)), libc.GoString(sqlite3.Xsqlite3_errmsg(c.tls, c.db))
}
