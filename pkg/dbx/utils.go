package dbx

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// DeriveColumnNamesFromTags extracts column names from a struct's tags.
// It uses reflection over the fields of a struct and retrieves the tag values
// specified by `tagKey` (e.g., "db"). Only exported fields (those with an uppercase first letter)
// that contain a non-empty tag and are not marked with `"-"` will be included in the returned slice.
//
// Arguments:
//   - entity: The struct from which to derive the column names. Can be a pointer or a value.
//   - tagKey: The key of the tag to extract values from (e.g., "db" for database column mapping).
//
// Returns:
//   - []string: A slice of column names derived from the specified tag on the struct fields.
//   - error: Any error encountered
//
// Example:
//
//	type Example struct {
//	    ID   int    `db:"id"`
//	    Name string `db:"name"`
//	    Age  int    `db:"age"`
//	}
//	columns, _ := DeriveColumnNamesFromTags(Example{}, "db")
//	// columns would be: []string{"id", "name", "age"}
func DeriveColumnNamesFromTags[T any](entity T, tagKey string) ([]string, error) {
	var columnNames []string

	t, err := structType(reflect.ValueOf(entity))
	if err != nil {
		return nil, err
	}

	for i := 0; i < t.NumField(); i++ {
		if column, ok := taggedColumn(t.Field(i), tagKey); ok {
			columnNames = append(columnNames, column)
		}
	}

	return columnNames, nil
}

// StructsToRows converts a slice of structs to a [][]any of the tagged field values, in field order.
// This uses reflection to extract the values of each struct field.
func StructsToRows[T any](entities []T, tagKey string) ([][]any, error) {
	rows := make([][]any, 0, len(entities))

	for _, entity := range entities {
		v := reflect.ValueOf(entity)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}

		t, err := structType(v)
		if err != nil {
			return nil, err
		}

		var row []any
		for i := 0; i < t.NumField(); i++ {
			if _, ok := taggedColumn(t.Field(i), tagKey); ok {
				row = append(row, v.Field(i).Interface())
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// BuildInsertQuery returns an INSERT statement with one `?` placeholder per column.
//
// Example:
//
//	BuildInsertQuery("users", []string{"id", "name"})
//	// INSERT INTO users (id, name) VALUES (?, ?)
func BuildInsertQuery(tableName string, columnNames []string) (string, error) {
	if tableName == "" {
		return "", errors.New("table name is empty")
	}

	if len(columnNames) == 0 {
		return "", errors.Errorf("no columns to insert into table %s", tableName)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columnNames)), ", ")

	return "INSERT INTO " + tableName + " (" + strings.Join(columnNames, ", ") + ") VALUES (" + placeholders + ")", nil
}

func structType(v reflect.Value) (reflect.Type, error) {
	// Check if it's a pointer, and dereference if necessary
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	// Ensure that the value is a struct
	if v.Kind() != reflect.Struct {
		return nil, errors.New("expected a struct type")
	}

	return v.Type(), nil
}

func taggedColumn(field reflect.StructField, tagKey string) (string, bool) {
	tag := field.Tag.Get(tagKey)
	if tag == "" || tag == "-" {
		return "", false
	}

	// Skip unexported fields
	if field.PkgPath != "" {
		return "", false
	}

	return tag, true
}
