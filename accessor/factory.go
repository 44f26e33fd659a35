package accessor

import (
	"fmt"
	"reflect"

	"github.com/remapkit/remap/schema"
)

// ObjectFactory is the object-instantiation strategy used to materialize
// missing intermediate targets during writes.
type ObjectFactory interface {
	Create(t reflect.Type) (any, error)
	// CreateWithArgs creates an instance and assigns args to exported
	// fields in declaration order. Go has no constructors; positional
	// field assignment is the closest equivalent.
	CreateWithArgs(t reflect.Type, argTypes []reflect.Type, args []any) (any, error)
}

// WrapperFactory is the custom-wrapper registration strategy. Implementations
// adapt externally supplied target shapes without modifying the walking
// engine.
type WrapperFactory interface {
	HasWrapperFor(object any) bool
	WrapperFor(a *Accessor, object any) (Wrapper, error)
}

// MetaFactory supplies cached reflective metadata per bean type.
type MetaFactory interface {
	Meta(t reflect.Type) (*schema.ClassMeta, error)
}

// DefaultObjectFactory instantiates maps, slices, pointers, and structs via
// reflection. Structs come back as pointers so that nested writes mutate the
// enclosing graph.
type DefaultObjectFactory struct{}

// Create builds a zero instance of t.
func (DefaultObjectFactory) Create(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Interface:
		// Untyped targets get an empty keyed mapping.
		return map[string]any{}, nil
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0).Interface(), nil
	case reflect.Ptr:
		inner, err := DefaultObjectFactory{}.Create(t.Elem())
		if err != nil {
			return nil, err
		}
		iv := reflect.ValueOf(inner)
		if iv.Type() == t {
			return inner, nil
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(iv)
		return p.Interface(), nil
	case reflect.Struct:
		return reflect.New(t).Interface(), nil
	default:
		return reflect.New(t).Elem().Interface(), nil
	}
}

// CreateWithArgs builds a struct instance and assigns args positionally to
// its exported fields.
func (f DefaultObjectFactory) CreateWithArgs(t reflect.Type, argTypes []reflect.Type, args []any) (any, error) {
	if len(argTypes) != len(args) {
		return nil, fmt.Errorf("argument types and values differ in length: %d vs %d", len(argTypes), len(args))
	}
	if len(args) == 0 {
		return f.Create(t)
	}

	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: cannot create %s with arguments", ErrUnsupported, t)
	}

	p := reflect.New(base)
	assigned := 0
	for i := 0; i < base.NumField() && assigned < len(args); i++ {
		if !base.Field(i).IsExported() {
			continue
		}
		if err := convertAssign(p.Elem().Field(i), args[assigned]); err != nil {
			return nil, fmt.Errorf("argument %d: %w", assigned, err)
		}
		assigned++
	}
	if assigned < len(args) {
		return nil, fmt.Errorf("%s has %d assignable fields, %d arguments given", base, assigned, len(args))
	}

	if t.Kind() == reflect.Ptr {
		return p.Interface(), nil
	}
	return p.Elem().Interface(), nil
}

// DefaultWrapperFactory registers no custom wrappers.
type DefaultWrapperFactory struct{}

func (DefaultWrapperFactory) HasWrapperFor(object any) bool { return false }

func (DefaultWrapperFactory) WrapperFor(a *Accessor, object any) (Wrapper, error) {
	return nil, fmt.Errorf("%w: the default wrapper factory should never be called", ErrUnsupported)
}

type defaultMetaFactory struct{}

func (defaultMetaFactory) Meta(t reflect.Type) (*schema.ClassMeta, error) {
	return schema.Introspect(t)
}

// DefaultMetaFactory resolves bean metadata through the shared schema cache.
var DefaultMetaFactory MetaFactory = defaultMetaFactory{}
