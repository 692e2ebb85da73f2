package dbx

// ConnConfig represents the configuration required to open an embedded database connection.
//
// Fields:
//   - Path: The database file path, a "file:" URI, or ":memory:" for a private in-memory database.
//   - ReadOnly: Open the database read-only. Statements that write fail at step time.
//   - CreateIfMissing: Create the database file when it does not exist. Ignored when ReadOnly is set.
//   - BusyTimeoutMillis: How long the engine retries on a locked database before reporting it busy. 0 disables retries.
type ConnConfig struct {
	Path              string
	ReadOnly          bool
	CreateIfMissing   bool
	BusyTimeoutMillis int
}

// InMemoryConnConfig returns the configuration of a private in-memory database.
func InMemoryConnConfig() ConnConfig {
	return ConnConfig{Path: ":memory:", CreateIfMissing: true}
}
