package sqlitedb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
)

// WithStatement compiles sql, hands the statement to fn and finalizes it on every exit path.
//
// Arguments:
//   - ctx: correlates the statement's log lines.
//   - conn: the connection to compile on.
//   - sql: a single SQL statement.
//   - fn: works with the Prepared statement; it must not retain it.
//
// Returns:
//   - error: the CompilationError, the error returned by fn, or the FinalizeError when fn succeeded.
//
// Example Usage:
//
//	err := sqlitedb.WithStatement(ctx, conn, "UPDATE users SET name = ? WHERE id = ?", func(stmt *sqlitedb.Statement) error {
//		if err := stmt.BindArgs("alice", 1); err != nil {
//			return err
//		}
//		return stmt.ExecuteStatement()
//	})
func WithStatement(ctx context.Context, conn *Conn, sql string, fn func(stmt *Statement) error) (err error) {
	stmt, err := NewStatement(ctx, conn, sql)
	if err != nil {
		return err
	}

	defer func() {
		if errFinalize := stmt.Finalize(); errFinalize != nil && err == nil {
			err = errFinalize
		}
	}()

	return fn(stmt)
}

// QueryAndScan executes a query and maps the result to structs using the provided scanFunc.
//
// Arguments:
//   - ctx: correlates the query's log lines.
//   - mgr: the instance manager running the query.
//   - scanFunc: maps the loaded row to T. The row is only valid during the call.
//   - query: the SQL query to be executed.
//   - args: values bound, in order, to the query placeholders.
//
// Returns:
//   - []T: the mapped rows, in result order.
//   - error: any error encountered during query execution or row scanning.
func QueryAndScan[T any](ctx context.Context, mgr dbx.InstanceManager, scanFunc func(row dbx.RowScan) (T, error), query string, args ...any) ([]T, error) {
	var results []T

	err := mgr.QueryAndProcess(ctx, func(row dbx.RowScan) error {
		result, err := scanFunc(row)
		if err != nil {
			return err
		}

		results = append(results, result)

		return nil
	}, query, args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return results, nil
}

// BulkInsertEntitiesWithTags inserts structs into a table with one compiled INSERT statement.
//
// The column names are derived from the `db` tags of the first entity; every entity's `ToRow()` values are
// bound to the statement, which is stepped and reset once per entity. An entity whose `ToRow()` is empty is
// bound with its tagged field values instead (dbx.StructsToRows). Fields with `db:"-"` or without a `db` tag
// are skipped.
//
// Arguments:
//   - ctx: correlates the statement's log lines.
//   - conn: the connection to insert on.
//   - tableName: the name of the table into which data will be inserted.
//   - entities: the rows to insert.
//
// Returns:
//   - int64: the number of rows inserted.
//   - error: any error encountered; rows inserted before it are not rolled back.
func BulkInsertEntitiesWithTags[T dbx.RowConvertibleEntity](ctx context.Context, conn *Conn, tableName string, entities []T) (int64, error) {
	if len(entities) == 0 {
		return 0, errorx.NewGeneralError("no entities to insert into %s", tableName)
	}

	columnNames, err := dbx.DeriveColumnNamesFromTags(entities[0], "db")
	if err != nil {
		return 0, errorx.NewGeneralErrorWrapper(err, "error deriving column names of %T", entities[0])
	}

	query, err := dbx.BuildInsertQuery(tableName, columnNames)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	var inserted int64

	err = WithStatement(ctx, conn, query, func(stmt *Statement) error {
		for i, entity := range entities {
			args, err := entityRow(entity)
			if err != nil {
				return errors.WithMessagef(err, "entity %d", i)
			}

			if err := stmt.BindArgs(args...); err != nil {
				return errors.WithMessagef(err, "entity %d", i)
			}

			mark := conn.totalChanges()

			result, err := stmt.StepAndReset()
			if err != nil {
				return errors.WithMessagef(err, "entity %d", i)
			}

			if result == RowAvailable {
				return errors.WithMessagef(usageError(ErrUnexpectedRow, query), "entity %d", i)
			}

			inserted += conn.changesSince(mark)
		}

		return nil
	})

	return inserted, err
}

func entityRow[T dbx.RowConvertibleEntity](entity T) ([]any, error) {
	if row := entity.ToRow(); len(row) > 0 {
		return row, nil
	}

	rows, err := dbx.StructsToRows([]T{entity}, "db")
	if err != nil {
		return nil, errorx.NewGeneralErrorWrapper(err, "error reading tagged fields of %T", entity)
	}

	return rows[0], nil
}
