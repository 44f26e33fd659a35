// Package accessor resolves dotted, optionally indexed property paths
// against heterogeneous target shapes: keyed mappings, indexable sequences,
// and reflective beans. A Composite Accessor walks nested targets through
// per-shape Wrappers, lazily instantiating missing intermediates on write.
package accessor

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/remapkit/remap/property"
)

// Wrapper is the uniform capability set over one target shape. New shapes
// register through a WrapperFactory rather than a subclass hierarchy.
type Wrapper interface {
	// Get reads the value the segment resolves to.
	Get(seg property.Segment) (any, error)
	// Set writes the value the segment resolves to.
	Set(seg property.Segment, value any) error

	// FindProperty canonicalizes a supplied name to the wrapper's actual
	// accessor name. Identity for mapping targets; case-insensitive with
	// optional underscore-to-camel matching for beans.
	FindProperty(name string, useCamelCase bool) string

	GetterNames() []string
	SetterNames() []string
	GetterType(name string) (reflect.Type, error)
	SetterType(name string) (reflect.Type, error)
	HasGetter(name string) bool
	HasSetter(name string) bool

	// InstantiateValue materializes a missing intermediate for the segment
	// using the factory, installs it via Set, and returns its accessor.
	InstantiateValue(name string, seg property.Segment, factory ObjectFactory) (*Accessor, error)

	IsCollection() bool
	Add(element any) error
	AddAll(elements []any) error
}

// refGetter is implemented by wrappers that can hand out an addressable
// reference for a segment, so nested writes mutate the enclosing graph
// instead of a copy. Checked by AccessorFor; optional.
type refGetter interface {
	ref(seg property.Segment) (any, bool)
}

var interfaceType = reflect.TypeOf((*any)(nil)).Elem()

// baseWrapper carries the shared collection-indexing logic used by the
// mapping and bean variants when a segment carries a bracket index.
type baseWrapper struct {
	a *Accessor
}

// resolveCollection resolves the container a bracketed segment indexes
// into: the wrapped object itself when the segment name is empty, otherwise
// the named property.
func (b *baseWrapper) resolveCollection(seg property.Segment, object any) (any, error) {
	if seg.Name == "" {
		return object, nil
	}
	return b.a.GetValue(seg.Name)
}

// collectionValue indexes into a map, slice, or array. Map indices are
// treated as keys; sequence indices must be numeric and in range.
func (b *baseWrapper) collectionValue(seg property.Segment, coll any) (any, error) {
	if coll == nil {
		return nil, fmt.Errorf("%w: cannot index into nil property %q", ErrPropertyNotFound, seg.Name)
	}

	rv := reflect.ValueOf(coll)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: cannot index into nil property %q", ErrPropertyNotFound, seg.Name)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		key, err := mapKey(rv.Type().Key(), seg.Index)
		if err != nil {
			return nil, err
		}
		v := rv.MapIndex(key)
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil

	case reflect.Slice, reflect.Array:
		i, err := sequenceIndex(seg, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil

	default:
		return nil, fmt.Errorf("%w: property %q is not an indexable collection (%s)",
			ErrTypeMismatch, seg.IndexedName, rv.Kind())
	}
}

// setCollectionValue writes through a bracketed segment. The collection
// value must be a map, or an addressable (or map/slice-backed) sequence.
func (b *baseWrapper) setCollectionValue(seg property.Segment, coll reflect.Value, value any) error {
	for coll.Kind() == reflect.Ptr {
		if coll.IsNil() {
			return fmt.Errorf("%w: cannot index into nil property %q", ErrPropertyNotFound, seg.Name)
		}
		coll = coll.Elem()
	}

	switch coll.Kind() {
	case reflect.Map:
		if coll.IsNil() {
			if !coll.CanSet() {
				return fmt.Errorf("%w: cannot index into nil property %q", ErrPropertyNotFound, seg.Name)
			}
			coll.Set(reflect.MakeMap(coll.Type()))
		}
		key, err := mapKey(coll.Type().Key(), seg.Index)
		if err != nil {
			return err
		}
		ev, err := convertValue(value, coll.Type().Elem())
		if err != nil {
			return err
		}
		coll.SetMapIndex(key, ev)
		return nil

	case reflect.Slice, reflect.Array:
		i, err := sequenceIndex(seg, coll.Len())
		if err != nil {
			return err
		}
		return convertAssign(coll.Index(i), value)

	default:
		return fmt.Errorf("%w: property %q is not an indexable collection (%s)",
			ErrTypeMismatch, seg.IndexedName, coll.Kind())
	}
}

// sequenceIndex parses a segment's index for a sequence target. Non-numeric
// and out-of-range indices are type mismatches, never silent nulls.
func sequenceIndex(seg property.Segment, length int) (int, error) {
	raw := seg.Index
	if !seg.HasIndex() {
		raw = seg.Name
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric index %q for sequence property %q",
			ErrTypeMismatch, raw, seg.IndexedName)
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("%w: index %d out of range for sequence property %q of length %d",
			ErrTypeMismatch, i, seg.IndexedName, length)
	}
	return i, nil
}

// mapKey converts a segment index string to the map's key type. String keys
// pass through; integer keys are parsed.
func mapKey(keyType reflect.Type, index string) (reflect.Value, error) {
	switch keyType.Kind() {
	case reflect.String:
		return reflect.ValueOf(index).Convert(keyType), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(index, 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: non-numeric key %q for map with %s keys",
				ErrTypeMismatch, index, keyType)
		}
		return reflect.ValueOf(i).Convert(keyType), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported map key type %s", ErrTypeMismatch, keyType)
	}
}

// convertAssign stores value into an addressable destination, converting
// compatible types and dereferencing pointers. Incompatible values fail with
// ErrTypeMismatch.
func convertAssign(dst reflect.Value, value any) error {
	if !dst.CanSet() {
		return fmt.Errorf("%w: target value is not addressable", ErrUnsupported)
	}
	cv, err := convertValue(value, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(cv)
	return nil
}

// convertValue produces a value of type t from an arbitrary input.
func convertValue(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		if v.Elem().Type().AssignableTo(t) {
			return v.Elem(), nil
		}
		if convertible(v.Elem().Type(), t) {
			return v.Elem().Convert(t), nil
		}
	}
	if convertible(v.Type(), t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: cannot assign %T to %s", ErrTypeMismatch, value, t)
}

// convertible restricts reflect convertibility to conversions that preserve
// meaning: string<->number conversions produce rune garbage and are treated
// as mismatches, except for []byte.
func convertible(src, dst reflect.Type) bool {
	if !src.ConvertibleTo(dst) {
		return false
	}
	if dst.Kind() == reflect.String && src.Kind() != reflect.String && !isByteSlice(src) {
		return false
	}
	if src.Kind() == reflect.String && dst.Kind() != reflect.String && !isByteSlice(dst) {
		return false
	}
	return true
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
