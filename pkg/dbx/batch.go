package dbx

// =====================================
// Batch Interface
// =====================================

// Batch defines the interface for managing a batch of SQL statements executed one after the other.
//
// A Batch allows multiple SQL statements to be queued together and executed in a single call. Implementations
// may compile a query once and re-run it for every queued entry sharing its text. This interface
// abstracts the batch management; it does not open a transaction.
//
// Methods:
//
//   - Len: Returns the number of SQL statements currently queued in the batch.
//   - Queue: Adds a SQL statement to the batch with the provided query and arguments.
//   - Queued: Returns the queued statements in queue order.
//
// Example Usage:
//
//	batch := dbx.NewEmptyBatch()
//	batch.Queue("INSERT INTO users (name, email) VALUES (?, ?)", "John Doe", "john@example.com")
//	batch.Queue("UPDATE users SET last_login = unixepoch() WHERE id = ?", userID)
//
//	rowsAffected, err := sqlitedb.ExecuteBatch(ctx, conn, batch)
//	if err != nil {
//	    log.Fatal("Failed to execute batch:", err)
//	}
//	log.Printf("Batch executed successfully, rows affected: %d", rowsAffected)
type Batch interface {
	Len() int
	Queue(query string, arguments ...any)
	Queued() []QueuedQuery
}

// QueuedQuery - one statement of a Batch.
type QueuedQuery struct {
	Query     string
	Arguments []any
}

type queryBatch struct {
	queries []QueuedQuery
}

// NewEmptyBatch creates a new, empty batch for queuing SQL statements.
func NewEmptyBatch() Batch {
	return &queryBatch{}
}

func (b *queryBatch) Len() int {
	return len(b.queries)
}

func (b *queryBatch) Queue(query string, arguments ...any) {
	b.queries = append(b.queries, QueuedQuery{Query: query, Arguments: arguments})
}

func (b *queryBatch) Queued() []QueuedQuery {
	return b.queries
}
