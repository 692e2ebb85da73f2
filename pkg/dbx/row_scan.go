package dbx

// RowScan gives read access to the row currently loaded by a query.
//
// A RowScan is only valid inside the callback it was passed to: once the callback returns, the cursor moves
// and the values it exposes change.
//
// Methods:
//   - Scan: Copies the row's columns, in order, into the provided destinations.
//   - ColumnNames: Returns the result column names.
//   - Values: Returns the row's columns as native Go values (int64, float64, string, []byte or nil).
type RowScan interface {
	Scan(dest ...any) error
	ColumnNames() []string
	Values() ([]any, error)
}
