package sqlitedb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/dbx/sqlitedb"
	"github.com/marcodd23/go-micro-sqlite/pkg/errorx"
	"github.com/marcodd23/go-micro-sqlite/test/sqlitetest"
)

// TestExecuteBatch runs mixed statements and checks the total rows affected.
func TestExecuteBatch(t *testing.T) {
	ctx := context.Background()
	conn := sqlitetest.OpenMemoryDb(ctx, t, createItems)

	batch := dbx.NewEmptyBatch()
	batch.Queue("INSERT INTO items (name, price) VALUES (?, ?)", "a", 1)
	batch.Queue("INSERT INTO items (name, price) VALUES (?, ?)", "b", 2)
	batch.Queue("INSERT INTO items (name) VALUES (?)", "c")
	batch.Queue("INSERT INTO items (name, price) VALUES (?, ?)", "d")
	batch.Queue("UPDATE items SET price = 0 WHERE price IS NULL")

	affected, err := sqlitedb.ExecuteBatch(ctx, conn, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(6), affected)
	assert.Equal(t, 0, conn.LiveStatements())
	assert.Equal(t, int64(4), countRows(ctx, t, conn, "items"))

	ddl := dbx.NewEmptyBatch()
	ddl.Queue("DELETE FROM items WHERE name = ?", "a")
	ddl.Queue("CREATE TABLE audit (id INTEGER PRIMARY KEY)")
	ddl.Queue("CREATE INDEX items_price ON items (price)")

	affected, err = sqlitedb.ExecuteBatch(ctx, conn, ddl)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected, "DDL entries add no rows")

	affected, err = sqlitedb.ExecuteBatch(ctx, conn, dbx.NewEmptyBatch())
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestExecuteBatch_StopsAtFailure(t *testing.T) {
	ctx := context.Background()
	conn := sqlitetest.OpenMemoryDb(ctx, t, createItems)

	batch := dbx.NewEmptyBatch()
	batch.Queue("INSERT INTO items (id, name) VALUES (?, ?)", 1, "a")
	batch.Queue("INSERT INTO items (id, name) VALUES (?, ?)", 1, "dup")
	batch.Queue("INSERT INTO items (id, name) VALUES (?, ?)", 2, "never")

	affected, err := sqlitedb.ExecuteBatch(ctx, conn, batch)
	requireKind(t, err, errorx.KindStep)
	assert.Contains(t, err.Error(), "batch entry 1")
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 0, conn.LiveStatements())

	rows := dbx.NewEmptyBatch()
	rows.Queue("SELECT 1")
	_, err = sqlitedb.ExecuteBatch(ctx, conn, rows)
	assert.True(t, errors.Is(err, sqlitedb.ErrUnexpectedRow))
}
