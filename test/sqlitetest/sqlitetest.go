package sqlitetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/dbx/sqlitedb"
)

// OpenMemoryDb - open a private in-memory database, run the setup statements on it and close it
// when the test ends.
func OpenMemoryDb(ctx context.Context, t *testing.T, setupStatements ...string) *sqlitedb.Conn {
	t.Helper()

	conn, err := sqlitedb.Open(ctx, dbx.InMemoryConnConfig())
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, conn.Close(ctx))
	})

	for _, stmt := range setupStatements {
		_, err := conn.Exec(ctx, stmt)
		require.NoError(t, err, "setup statement: %s", stmt)
	}

	return conn
}

// OpenFileDb - open (creating it) a database file in a temporary directory removed when the test ends.
func OpenFileDb(ctx context.Context, t *testing.T, preparedStatements ...dbx.PreparedStatement) (*sqlitedb.Conn, dbx.ConnConfig) {
	t.Helper()

	cfg := dbx.ConnConfig{Path: t.TempDir() + "/test.db", CreateIfMissing: true}

	conn, err := sqlitedb.Open(ctx, cfg, preparedStatements...)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, conn.Close(ctx))
	})

	return conn, cfg
}
