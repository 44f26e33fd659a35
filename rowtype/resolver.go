package rowtype

import (
	"reflect"
	"strings"
)

// Column is one snapshotted column descriptor: display name, semantic column
// type, and the runtime class name the driver reported for the value.
type Column struct {
	Name      string
	SQLType   SQLType
	ClassName string
}

// MetadataSource supplies a row shape's column descriptors. Adapters over
// concrete drivers live in the database package; useColumnLabel selects the
// display label over the formal column name where the source distinguishes
// them.
type MetadataSource interface {
	Columns(useColumnLabel bool) ([]Column, error)
}

type converterKey struct {
	column string
	target reflect.Type
}

type shapeKey struct {
	shapeID string
	prefix  string
}

// Resolver owns one result pass's column snapshot and its append-only
// caches: resolved converters per (column, requested type) and the
// mapped/unmapped column partition per (shape, prefix). A Resolver belongs to
// exactly one pass and one goroutine; nothing here is synchronized.
type Resolver struct {
	columns  []Column
	byName   map[string]int // uppercased column name -> index
	registry ConverterSource

	converters map[converterKey]Converter
	mapped     map[shapeKey][]string
	unmapped   map[shapeKey][]string
}

// NewResolver snapshots the source's column metadata and prepares the caches.
func NewResolver(src MetadataSource, registry ConverterSource, useColumnLabel bool) (*Resolver, error) {
	columns, err := src.Columns(useColumnLabel)
	if err != nil {
		return nil, err
	}
	return NewResolverFromColumns(columns, registry), nil
}

// NewResolverFromColumns builds a resolver over an already-snapshotted
// column set.
func NewResolverFromColumns(columns []Column, registry ConverterSource) *Resolver {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		name := strings.ToUpper(c.Name)
		if _, ok := byName[name]; !ok {
			byName[name] = i
		}
	}
	return &Resolver{
		columns:    columns,
		byName:     byName,
		registry:   registry,
		converters: make(map[converterKey]Converter),
		mapped:     make(map[shapeKey][]string),
		unmapped:   make(map[shapeKey][]string),
	}
}

// ColumnNames returns the snapshotted display names in column order.
func (r *Resolver) ColumnNames() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}
	return names
}

// column finds the descriptor for a name, case-insensitively. Unknown names
// yield a zero descriptor: no type signal, so resolution proceeds straight to
// the type-independent steps.
func (r *Resolver) column(name string) Column {
	if i, ok := r.byName[strings.ToUpper(name)]; ok {
		return r.columns[i]
	}
	return Column{Name: name}
}

// Resolve picks the converter for a column and requested property type,
// memoized per (column, type). The fallback order runs from the most to the
// least reliable signal: the requested type with the column type, then the
// column's reported runtime class with and without the column type, then the
// column type alone, and finally the generic object converter. Even the last
// resort is cached so the chain never re-runs for the same key. An
// unresolvable runtime class name is recovered silently and treated as no
// hint.
func (r *Resolver) Resolve(columnName string, requestedType reflect.Type) Converter {
	key := converterKey{column: columnName, target: requestedType}
	if c, ok := r.converters[key]; ok {
		return c
	}

	col := r.column(columnName)
	unknown := r.registry.Unknown()

	c := r.registry.Lookup(requestedType, col.SQLType)
	if c == nil || c == unknown {
		if runtimeClass, ok := r.registry.ResolveClass(col.ClassName); ok {
			if next := r.registry.Lookup(runtimeClass, col.SQLType); next != nil && next != unknown {
				c = next
			} else if next := r.registry.LookupType(runtimeClass); next != nil && next != unknown {
				c = next
			}
		}
	}
	if c == nil || c == unknown {
		if next := r.registry.LookupSQL(col.SQLType); next != nil && next != unknown {
			c = next
		}
	}
	if c == nil || c == unknown {
		c = ObjectConverter
	}

	r.converters[key] = c
	return c
}

// MappedColumns returns this row's column names declared by the shape after
// applying the prefix, uppercased; cached per (shape, prefix).
func (r *Resolver) MappedColumns(shape Shape, columnPrefix string) []string {
	mapped, _ := r.partition(shape, columnPrefix)
	return mapped
}

// UnmappedColumns returns the remainder of this row's columns, in their
// original spelling; cached per (shape, prefix). An unmapped set equal to the
// full column list signals a shape with no explicit declarations.
func (r *Resolver) UnmappedColumns(shape Shape, columnPrefix string) []string {
	_, unmapped := r.partition(shape, columnPrefix)
	return unmapped
}

// partition splits the snapshot's columns against the shape's declarations.
// Comparison uppercases both sides with Unicode default casing; the prefix is
// applied to the declared names so prefixed row columns classify as mapped.
func (r *Resolver) partition(shape Shape, columnPrefix string) (mapped, unmapped []string) {
	key := shapeKey{shapeID: shape.ID, prefix: columnPrefix}
	if m, ok := r.mapped[key]; ok {
		return m, r.unmapped[key]
	}

	prefix := strings.ToUpper(columnPrefix)
	declared := make(map[string]struct{}, len(shape.MappedColumns))
	for _, c := range shape.MappedColumns {
		declared[prefix+strings.ToUpper(c)] = struct{}{}
	}

	mapped = make([]string, 0, len(r.columns))
	unmapped = make([]string, 0, len(r.columns))
	for _, col := range r.columns {
		upper := strings.ToUpper(col.Name)
		if _, ok := declared[upper]; ok {
			mapped = append(mapped, upper)
		} else {
			unmapped = append(unmapped, col.Name)
		}
	}

	r.mapped[key] = mapped
	r.unmapped[key] = unmapped
	return mapped, unmapped
}
