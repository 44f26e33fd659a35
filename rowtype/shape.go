package rowtype

import (
	"reflect"
	"sort"

	"github.com/remapkit/remap/schema"
)

// Shape describes one result shape: its identifier and the column names it
// explicitly maps, independent of any prefix. An empty MappedColumns set
// marks an inferred shape with no explicit declarations, which callers detect
// through a full-row unmapped set and answer with automatic mapping.
type Shape struct {
	ID            string
	MappedColumns []string
}

// NewShape builds an explicitly declared shape.
func NewShape(id string, mappedColumns ...string) Shape {
	return Shape{ID: id, MappedColumns: mappedColumns}
}

// InferShape derives a shape from a struct type: the identifier is the
// pluralized snake_case type name and the mapped columns are the tag-declared
// or derived column names of its exported fields, in stable sorted order.
func InferShape(t reflect.Type) (Shape, error) {
	meta, err := schema.Introspect(t)
	if err != nil {
		return Shape{}, err
	}

	columns := make([]string, 0, len(meta.ColumnMap))
	for column := range meta.ColumnMap {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	return Shape{
		ID:            schema.DefaultShapeName(meta.Name),
		MappedColumns: columns,
	}, nil
}
