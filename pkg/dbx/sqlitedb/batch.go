package sqlitedb

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/marcodd23/go-micro-sqlite/pkg/dbx"
	"github.com/marcodd23/go-micro-sqlite/pkg/logx"
)

// ExecuteBatch runs the queued statements of batch in order and returns the total rows they modified.
//
// Each distinct query is compiled once and re-bound for every entry using it; all statements are finalized
// before returning. Execution stops at the first failing entry, entries before it stay applied.
//
// Arguments:
//   - ctx: correlates the statements' log lines.
//   - conn: the connection to run on.
//   - batch: the statements to run. Every entry must produce no rows.
//
// Returns:
//   - int64: rows modified by the entries that ran.
//   - error: the error of the failing entry, annotated with its position in the batch.
func ExecuteBatch(ctx context.Context, conn *Conn, batch dbx.Batch) (int64, error) {
	if batch == nil || batch.Len() == 0 {
		return 0, nil
	}

	compiled := make(map[string]*Statement)
	defer func() {
		for _, stmt := range compiled {
			if err := stmt.Finalize(); err != nil {
				logx.GetLogger().LogWarning(ctx, "error finalizing batch statement", err)
			}
		}
	}()

	var affected int64

	for i, queued := range batch.Queued() {
		stmt, ok := compiled[queued.Query]
		if !ok {
			var err error
			if stmt, err = NewStatement(ctx, conn, queued.Query); err != nil {
				return affected, errors.WithMessagef(err, "batch entry %d", i)
			}

			compiled[queued.Query] = stmt
		} else if err := stmt.ClearBindings(); err != nil {
			return affected, errors.WithMessagef(err, "batch entry %d", i)
		}

		if err := stmt.BindArgs(queued.Arguments...); err != nil {
			return affected, errors.WithMessagef(err, "batch entry %d", i)
		}

		mark := conn.totalChanges()

		result, err := stmt.StepAndReset()
		if err != nil {
			return affected, errors.WithMessagef(err, "batch entry %d", i)
		}

		if result == RowAvailable {
			return affected, errors.WithMessagef(usageError(ErrUnexpectedRow, queued.Query), "batch entry %d", i)
		}

		affected += conn.changesSince(mark)
	}

	logx.GetLogger().LogDebug(ctx, fmt.Sprintf("Executed batch of %d statements, %d distinct, %d rows affected",
		batch.Len(), len(compiled), affected))

	return affected, nil
}
