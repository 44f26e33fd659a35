// Package remap resolves dotted, optionally indexed property paths against
// arbitrary object graphs and matches result-set columns to value
// converters. It is the object/row mapping core a result-processing layer
// builds on: the accessor packages walk and mutate target graphs, the
// rowtype package resolves per-column converters with per-pass caching.
package remap

import (
	"reflect"

	"github.com/remapkit/remap/accessor"
	"github.com/remapkit/remap/rowtype"
)

// Config carries the mapping behavior flags shared by a result pass.
type Config struct {
	// UseColumnLabel selects the display label over the formal column name
	// when a metadata source distinguishes them.
	UseColumnLabel bool
	// MapUnderscoreToCamelCase lets snake_case column names resolve
	// camel-case bean properties during auto-mapping.
	MapUnderscoreToCamelCase bool
}

// DefaultConfig returns the default mapping behavior.
func DefaultConfig() Config {
	return Config{
		UseColumnLabel:           true,
		MapUnderscoreToCamelCase: false,
	}
}

type Accessor = accessor.Accessor

// ForObject wraps an object graph for path-based access with the default
// strategies. Nil yields the null singleton, on which every operation is a
// safe no-op.
func ForObject(object any) *Accessor {
	return accessor.ForObject(object)
}

// NewResolver snapshots a row source's column metadata and returns the
// converter resolver for the pass, backed by the default converter registry.
func NewResolver(src rowtype.MetadataSource, cfg Config) (*rowtype.Resolver, error) {
	return rowtype.NewResolver(src, rowtype.DefaultRegistry(), cfg.UseColumnLabel)
}

// ShapeOf infers the result shape for a struct type.
func ShapeOf(t reflect.Type) (rowtype.Shape, error) {
	return rowtype.InferShape(t)
}
