package dbx

// RowConvertibleEntity defines an interface for converting a struct into a row of values for database insertion.
//
// Each struct implementing this interface must provide the `ToRow()` method, which converts the struct into a slice
// of values bound, in order, to the placeholders of an INSERT statement built from the struct's `db` tags.
//
// The values returned by `ToRow()` should correspond to the struct's tagged fields in declaration order.
// Fields with `db:"-"` or without a tag must be omitted. A `ToRow()` returning no values lets the bulk insert
// read the tagged fields itself.
//
// Example:
//
//	type MyStruct struct {
//	    ID    int    `db:"id"`
//	    Name  string `db:"name"`
//	    Age   int    `db:"age"`
//	}
//
//	func (m MyStruct) ToRow() []interface{} {
//	    return []interface{}{m.ID, m.Name, m.Age}
//	}
type RowConvertibleEntity interface {
	ToRow() []interface{} // Converts the struct to a row of values.
}
