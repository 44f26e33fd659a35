package accessor

import (
	"fmt"
	"reflect"

	"github.com/remapkit/remap/property"
)

// mapWrapper adapts string-keyed maps. Mapping targets are untyped from the
// path resolver's point of view: any key can be written (hasSetter is always
// true) and getter types reflect whatever value currently sits under a key.
type mapWrapper struct {
	baseWrapper
	m reflect.Value // Kind() == Map, string-convertible keys
}

func newMapWrapper(a *Accessor, m reflect.Value) *mapWrapper {
	return &mapWrapper{baseWrapper: baseWrapper{a: a}, m: m}
}

func (w *mapWrapper) lookup(name string) (any, bool) {
	key, err := mapKey(w.m.Type().Key(), name)
	if err != nil {
		return nil, false
	}
	v := w.m.MapIndex(key)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func (w *mapWrapper) Get(seg property.Segment) (any, error) {
	if seg.HasIndex() {
		coll, err := w.resolveCollection(seg, w.m.Interface())
		if err != nil {
			return nil, err
		}
		return w.collectionValue(seg, coll)
	}
	v, _ := w.lookup(seg.Name)
	return v, nil
}

func (w *mapWrapper) Set(seg property.Segment, value any) error {
	if seg.HasIndex() {
		coll, err := w.resolveCollection(seg, w.m.Interface())
		if err != nil {
			return err
		}
		return w.setCollectionValue(seg, reflect.ValueOf(coll), value)
	}

	key, err := mapKey(w.m.Type().Key(), seg.Name)
	if err != nil {
		return err
	}
	ev, err := convertValue(value, w.m.Type().Elem())
	if err != nil {
		return err
	}
	w.m.SetMapIndex(key, ev)
	return nil
}

// FindProperty is identity for mapping targets: any name is a legal key.
func (w *mapWrapper) FindProperty(name string, useCamelCase bool) string {
	return name
}

func (w *mapWrapper) GetterNames() []string {
	names := make([]string, 0, w.m.Len())
	for _, k := range w.m.MapKeys() {
		names = append(names, fmt.Sprint(k.Interface()))
	}
	return names
}

func (w *mapWrapper) SetterNames() []string {
	return w.GetterNames()
}

// GetterType reports the runtime type of the current value under the key,
// or the generic object type when absent or nil.
func (w *mapWrapper) GetterType(name string) (reflect.Type, error) {
	seg := property.Parse(name)
	if seg.HasNext() {
		sub, err := w.a.AccessorFor(seg.IndexedName)
		if err != nil {
			return nil, err
		}
		if !sub.IsNull() {
			return sub.GetterType(seg.Children)
		}
		return interfaceType, nil
	}
	if v, ok := w.lookup(seg.Name); ok && v != nil {
		return reflect.TypeOf(v), nil
	}
	return interfaceType, nil
}

func (w *mapWrapper) SetterType(name string) (reflect.Type, error) {
	return w.GetterType(name)
}

func (w *mapWrapper) HasGetter(name string) bool {
	seg := property.Parse(name)
	if !seg.HasNext() {
		_, ok := w.lookup(seg.Name)
		return ok
	}
	if _, ok := w.lookup(seg.Name); !ok {
		return false
	}
	sub, err := w.a.AccessorFor(seg.IndexedName)
	if err != nil {
		return false
	}
	if sub.IsNull() {
		return true
	}
	return sub.HasGetter(seg.Children)
}

// HasSetter is always true: mapping targets accept any key.
func (w *mapWrapper) HasSetter(name string) bool {
	return true
}

// InstantiateValue always creates an empty keyed mapping regardless of any
// declared type; the target shape is untyped.
func (w *mapWrapper) InstantiateValue(name string, seg property.Segment, factory ObjectFactory) (*Accessor, error) {
	child := map[string]any{}
	if err := w.Set(seg, child); err != nil {
		return nil, err
	}
	return w.a.spawn(child), nil
}

func (w *mapWrapper) IsCollection() bool { return false }

func (w *mapWrapper) Add(element any) error {
	return fmt.Errorf("%w: add on a mapping target", ErrUnsupported)
}

func (w *mapWrapper) AddAll(elements []any) error {
	return fmt.Errorf("%w: addAll on a mapping target", ErrUnsupported)
}
