// Package helpers builds the column schemas and typed values that go into
// insert requests.
package helpers

import (
	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
)

// Tag builds the schema of a tag column.
func Tag(name string, datatype gpb.ColumnDataType) *gpb.ColumnSchema {
	return &gpb.ColumnSchema{
		ColumnName:   name,
		SemanticType: gpb.SemanticType_TAG,
		Datatype:     datatype,
	}
}

// Timestamp builds the schema of the time index column.
func Timestamp(name string, datatype gpb.ColumnDataType) *gpb.ColumnSchema {
	return &gpb.ColumnSchema{
		ColumnName:   name,
		SemanticType: gpb.SemanticType_TIMESTAMP,
		Datatype:     datatype,
	}
}

// Field builds the schema of a value field column.
func Field(name string, datatype gpb.ColumnDataType) *gpb.ColumnSchema {
	return &gpb.ColumnSchema{
		ColumnName:   name,
		SemanticType: gpb.SemanticType_FIELD,
		Datatype:     datatype,
	}
}
