package accessor

import (
	"errors"
	"reflect"

	"github.com/remapkit/remap/property"
)

// Accessor is the recursive path-walking engine. Each instance owns exactly
// one target object and the Wrapper selected for its runtime shape, plus
// shared references to the pluggable strategies. Accessors are created on
// demand per object encountered while walking a path and are not retained
// beyond the call chain.
type Accessor struct {
	original any
	wrapper  Wrapper

	objectFactory  ObjectFactory
	wrapperFactory WrapperFactory
	metaFactory    MetaFactory
}

// Null is the distinguished accessor for absent targets. Every operation on
// it is a safe no-op returning null/false, so probing optional nested paths
// needs no existence pre-checks.
var Null = &Accessor{
	wrapper:        nullWrapper{},
	objectFactory:  DefaultObjectFactory{},
	wrapperFactory: DefaultWrapperFactory{},
	metaFactory:    DefaultMetaFactory,
}

// New wraps an object with the supplied strategies, selecting the wrapper
// variant by runtime shape in priority order: already-wrapped, custom
// factory, keyed mapping, indexable sequence, reflective bean. Nil objects
// (including typed nil pointers, maps, and slices) yield the Null singleton.
func New(object any, objectFactory ObjectFactory, wrapperFactory WrapperFactory, metaFactory MetaFactory) *Accessor {
	if object == nil {
		return Null
	}

	a := &Accessor{
		original:       object,
		objectFactory:  objectFactory,
		wrapperFactory: wrapperFactory,
		metaFactory:    metaFactory,
	}

	if w, ok := object.(Wrapper); ok {
		a.wrapper = w
		return a
	}
	if wrapperFactory.HasWrapperFor(object) {
		if w, err := wrapperFactory.WrapperFor(a, object); err == nil {
			a.wrapper = w
			return a
		}
	}

	rv := reflect.ValueOf(object)
	if isNilable(rv.Kind()) && rv.IsNil() {
		return Null
	}

	elem := rv
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}

	switch elem.Kind() {
	case reflect.Map:
		a.wrapper = newMapWrapper(a, elem)
	case reflect.Slice, reflect.Array:
		// Keep the pointer when present: Add needs it to survive append
		// reallocation.
		if rv.Kind() == reflect.Ptr && rv.Elem().Kind() != reflect.Ptr {
			a.wrapper = newSliceWrapper(a, rv)
		} else {
			a.wrapper = newSliceWrapper(a, elem)
		}
	default:
		a.wrapper = newBeanWrapper(a, object)
	}
	return a
}

// ForObject wraps an object with the default strategies.
func ForObject(object any) *Accessor {
	return New(object, DefaultObjectFactory{}, DefaultWrapperFactory{}, DefaultMetaFactory)
}

// IsNull reports whether this is the null singleton.
func (a *Accessor) IsNull() bool { return a == Null }

// Original returns the wrapped target object.
func (a *Accessor) Original() any { return a.original }

// spawn wraps a nested value reusing this accessor's strategy references.
func (a *Accessor) spawn(object any) *Accessor {
	return New(object, a.objectFactory, a.wrapperFactory, a.metaFactory)
}

// GetValue resolves a dotted path to its value. Absent intermediate levels
// short-circuit to a nil result without error; unresolvable properties fail
// with ErrPropertyNotFound. Reads are side-effect free and idempotent.
func (a *Accessor) GetValue(path string) (any, error) {
	if a.IsNull() {
		return nil, nil
	}
	seg := property.Parse(path)
	if !seg.HasNext() {
		return a.wrapper.Get(seg)
	}

	sub, err := a.AccessorFor(seg.IndexedName)
	if err != nil {
		return nil, err
	}
	if sub.IsNull() {
		return nil, nil
	}
	return sub.GetValue(seg.Children)
}

// SetValue writes a value at a dotted path, materializing each missing
// intermediate container exactly once via the object factory. Writing nil
// through an absent intermediate is a no-op: auto-vivification is never
// needed to clear a field that does not exist.
func (a *Accessor) SetValue(path string, value any) error {
	if a.IsNull() {
		return nil
	}
	seg := property.Parse(path)
	if !seg.HasNext() {
		return a.wrapper.Set(seg, value)
	}

	sub, err := a.AccessorFor(seg.IndexedName)
	if err != nil {
		// An out-of-range index into a not-yet-sized collection is
		// instantiable below; anything else is a real resolution failure.
		if !errors.Is(err, ErrTypeMismatch) {
			return err
		}
		sub = Null
	}
	if sub.IsNull() {
		if value == nil {
			return nil
		}
		sub, err = a.wrapper.InstantiateValue(path, seg, a.objectFactory)
		if err != nil {
			return err
		}
	}
	return sub.SetValue(seg.Children, value)
}

// AccessorFor resolves the value at name and wraps it in a new accessor,
// re-wrapping at every level so nested beans, mappings, and sequences
// compose transparently. Absent values yield the Null singleton.
func (a *Accessor) AccessorFor(name string) (*Accessor, error) {
	if a.IsNull() {
		return Null, nil
	}

	seg := property.Parse(name)
	if seg.HasNext() {
		v, err := a.GetValue(name)
		if err != nil {
			return nil, err
		}
		return a.spawn(v), nil
	}

	// Prefer addressable references so writes through the sub-accessor
	// mutate this graph, not a copy.
	if rg, ok := a.wrapper.(refGetter); ok {
		if r, ok := rg.ref(seg); ok {
			return a.spawn(r), nil
		}
	}

	v, err := a.wrapper.Get(seg)
	if err != nil {
		return nil, err
	}
	return a.spawn(v), nil
}

// FindProperty canonicalizes a supplied name through the current wrapper.
func (a *Accessor) FindProperty(name string, useCamelCase bool) string {
	return a.wrapper.FindProperty(name, useCamelCase)
}

// GetterNames lists readable property names on the current target.
func (a *Accessor) GetterNames() []string { return a.wrapper.GetterNames() }

// SetterNames lists writable property names on the current target.
func (a *Accessor) SetterNames() []string { return a.wrapper.SetterNames() }

// GetterType reports the declared or runtime type a read of name yields.
func (a *Accessor) GetterType(name string) (reflect.Type, error) {
	return a.wrapper.GetterType(name)
}

// SetterType reports the type a write of name expects.
func (a *Accessor) SetterType(name string) (reflect.Type, error) {
	return a.wrapper.SetterType(name)
}

// HasGetter reports whether name is readable on the current target.
func (a *Accessor) HasGetter(name string) bool { return a.wrapper.HasGetter(name) }

// HasSetter reports whether name is writable on the current target.
func (a *Accessor) HasSetter(name string) bool { return a.wrapper.HasSetter(name) }

// IsCollection reports whether the target is an indexable sequence.
func (a *Accessor) IsCollection() bool { return a.wrapper.IsCollection() }

// Add appends an element; only sequence targets support it.
func (a *Accessor) Add(element any) error { return a.wrapper.Add(element) }

// AddAll appends elements; only sequence targets support it.
func (a *Accessor) AddAll(elements []any) error { return a.wrapper.AddAll(elements) }

// nullWrapper backs the Null singleton: reads return nil, writes and
// mutations are swallowed, introspection is empty.
type nullWrapper struct{}

func (nullWrapper) Get(property.Segment) (any, error)            { return nil, nil }
func (nullWrapper) Set(property.Segment, any) error              { return nil }
func (nullWrapper) FindProperty(string, bool) string             { return "" }
func (nullWrapper) GetterNames() []string                        { return nil }
func (nullWrapper) SetterNames() []string                        { return nil }
func (nullWrapper) GetterType(string) (reflect.Type, error)      { return interfaceType, nil }
func (nullWrapper) SetterType(string) (reflect.Type, error)      { return interfaceType, nil }
func (nullWrapper) HasGetter(string) bool                        { return false }
func (nullWrapper) HasSetter(string) bool                        { return false }
func (nullWrapper) IsCollection() bool                           { return false }
func (nullWrapper) Add(any) error                                { return nil }
func (nullWrapper) AddAll([]any) error                           { return nil }
func (nullWrapper) InstantiateValue(string, property.Segment, ObjectFactory) (*Accessor, error) {
	return Null, nil
}
