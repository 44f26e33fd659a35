package accessor

import (
	"fmt"
	"reflect"

	"github.com/remapkit/remap/property"
)

// sliceWrapper adapts indexable sequences: slices, arrays, and pointers to
// slices. It is the only variant that supports collection mutation; Add and
// AddAll need a pointer-to-slice target since append may reallocate.
type sliceWrapper struct {
	baseWrapper
	v   reflect.Value // the slice or array value
	ptr reflect.Value // pointer to slice when available, else invalid
}

func newSliceWrapper(a *Accessor, rv reflect.Value) *sliceWrapper {
	w := &sliceWrapper{baseWrapper: baseWrapper{a: a}}
	if rv.Kind() == reflect.Ptr {
		w.ptr = rv
		w.v = rv.Elem()
	} else {
		w.v = rv
	}
	return w
}

func (w *sliceWrapper) Get(seg property.Segment) (any, error) {
	i, err := sequenceIndex(seg, w.v.Len())
	if err != nil {
		return nil, err
	}
	return w.v.Index(i).Interface(), nil
}

func (w *sliceWrapper) Set(seg property.Segment, value any) error {
	i, err := sequenceIndex(seg, w.v.Len())
	if err != nil {
		return err
	}
	return convertAssign(w.v.Index(i), value)
}

func (w *sliceWrapper) ref(seg property.Segment) (any, bool) {
	i, err := sequenceIndex(seg, w.v.Len())
	if err != nil {
		return nil, false
	}
	elem := w.v.Index(i)
	// Struct elements compose by address so nested writes land in the
	// backing array, not a copy.
	if elem.Kind() == reflect.Struct && elem.CanAddr() {
		return elem.Addr().Interface(), true
	}
	return nil, false
}

func (w *sliceWrapper) FindProperty(name string, useCamelCase bool) string {
	return name
}

func (w *sliceWrapper) GetterNames() []string { return nil }
func (w *sliceWrapper) SetterNames() []string { return nil }

func (w *sliceWrapper) GetterType(name string) (reflect.Type, error) {
	return w.v.Type().Elem(), nil
}

func (w *sliceWrapper) SetterType(name string) (reflect.Type, error) {
	return w.v.Type().Elem(), nil
}

func (w *sliceWrapper) HasGetter(name string) bool {
	_, err := sequenceIndex(property.Parse(name), w.v.Len())
	return err == nil
}

func (w *sliceWrapper) HasSetter(name string) bool {
	return w.HasGetter(name)
}

func (w *sliceWrapper) InstantiateValue(name string, seg property.Segment, factory ObjectFactory) (*Accessor, error) {
	return nil, fmt.Errorf("%w: cannot instantiate property %q through a sequence target", ErrUnsupported, name)
}

func (w *sliceWrapper) IsCollection() bool { return true }

func (w *sliceWrapper) Add(element any) error {
	if !w.ptr.IsValid() || w.v.Kind() != reflect.Slice {
		return fmt.Errorf("%w: add requires a pointer-to-slice target", ErrUnsupported)
	}
	ev, err := convertValue(element, w.v.Type().Elem())
	if err != nil {
		return err
	}
	w.ptr.Elem().Set(reflect.Append(w.v, ev))
	w.v = w.ptr.Elem()
	return nil
}

func (w *sliceWrapper) AddAll(elements []any) error {
	for _, e := range elements {
		if err := w.Add(e); err != nil {
			return err
		}
	}
	return nil
}
