package schema

import "reflect"

// ClassMeta holds the cached reflective metadata for one struct type. It is
// built once per type and shared; all lookups after construction are
// read-only.
type ClassMeta struct {
	Type      reflect.Type
	Name      string
	Fields    []*FieldMeta
	FieldMap  map[string]*FieldMeta // canonical Go field name -> FieldMeta
	ColumnMap map[string]*FieldMeta // declared column name -> FieldMeta

	// UPPERCASE field or column name -> canonical Go field name
	caseInsensitive map[string]string
}

// FieldMeta describes one exported struct field.
type FieldMeta struct {
	Name   string
	Column string // tag-declared or derived snake_case column name
	Type   reflect.Type
	Index  []int
	// ElemType is the element type for slice, array, and map fields; nil
	// otherwise. Used when an indexed segment resolves through the field.
	ElemType reflect.Type
}
