package jsonx

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MarshalRow renders a result row as a JSON object keyed by column name.
// Blob values ([]byte) are rendered as base64 strings.
func MarshalRow(columnNames []string, values []any) ([]byte, error) {
	if len(columnNames) != len(values) {
		return nil, errors.Errorf("row has %d values for %d columns", len(values), len(columnNames))
	}

	row := make(map[string]any, len(columnNames))
	for i, name := range columnNames {
		row[name] = values[i]
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to marshal row")
	}

	return data, nil
}
