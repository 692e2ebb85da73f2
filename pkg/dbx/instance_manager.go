package dbx

import (
	"context"
)

// InstanceManager defines a contract for executing SQL against a database instance.
//
// This interface abstracts the operations an application needs from an open database: running statements that
// return no rows, iterating the rows of a query, and releasing the instance. Every call prepares, uses and
// releases its own statement, so no engine resource outlives the call.
//
// Responsibilities of InstanceManager include:
//   - Executing SQL commands and returning the number of rows they modified.
//   - Executing SQL queries and handing each row to a callback while the row is loaded.
//   - Providing access to the connection configuration.
//   - Releasing the underlying connection, including any statement the caller leaked.
//
// Example Implementation:
//
//	sqlitedb.Conn implements InstanceManager over an embedded SQLite engine, one connection per instance.
type InstanceManager interface {
	GetConnectionConfig() ConnConfig
	Exec(ctx context.Context, execQuery string, args ...any) (int64, error)
	QueryAndProcess(ctx context.Context, processCallback func(row RowScan) error, query string, args ...any) error
	Close(ctx context.Context) error
}
