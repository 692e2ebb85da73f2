package dbx

import (
	"github.com/pkg/errors"
)

// PreparedStatement represents a named SQL query registered with a connection.
//
// A PreparedStatement is a descriptor, not a compiled statement: it pairs a unique name with the SQL text that
// will be compiled each time the statement is requested by name. Registering queries up front lets the
// connection verify, at open time, that every query the application relies on compiles.
//
// Fields:
//   - Name: A unique name identifying the prepared statement. This name is used to reference the statement when executing it.
//   - Query: The SQL query string associated with the prepared statement. The query can include `?` placeholders for arguments.
type PreparedStatement struct {
	Name  string
	Query string
}

// ErrDuplicateStatementName is returned when two registered statements share a name.
var ErrDuplicateStatementName = errors.New("duplicate prepared statement name")

// NewPreparedStatement creates a new prepared statement descriptor.
//
// Arguments:
//   - name: The name of the prepared statement.
//   - query: The SQL query string for the prepared statement.
//
// Returns:
//   - PreparedStatement: A new instance of the PreparedStatement struct.
func NewPreparedStatement(name, query string) PreparedStatement {
	return PreparedStatement{Name: name, Query: query}
}

// GetName returns the name of the prepared statement.
func (p PreparedStatement) GetName() string {
	return p.Name
}

// GetQuery returns the query of the prepared statement.
func (p PreparedStatement) GetQuery() string {
	return p.Query
}

// PreparedStatementsByName indexes statements by name.
//
// Returns:
//   - map[string]string: name to query.
//   - error: ErrDuplicateStatementName, wrapped with the offending name, if a name repeats; an error if a name is empty.
func PreparedStatementsByName(statements ...PreparedStatement) (map[string]string, error) {
	byName := make(map[string]string, len(statements))

	for _, stmt := range statements {
		if stmt.GetName() == "" {
			return nil, errors.Errorf("prepared statement with query %q has no name", stmt.GetQuery())
		}

		if _, exists := byName[stmt.GetName()]; exists {
			return nil, errors.Wrapf(ErrDuplicateStatementName, "statement '%s'", stmt.GetName())
		}

		byName[stmt.GetName()] = stmt.GetQuery()
	}

	return byName, nil
}
