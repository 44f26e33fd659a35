package accessor

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/remapkit/remap/property"
	"github.com/remapkit/remap/schema"
)

// beanWrapper adapts struct targets through cached reflective metadata.
// Property names resolve case-insensitively, optionally with underscore
// stripping for camel-case auto-mapping, against field names and tag-declared
// column names. Writes need an addressable target, so bean roots are
// normally pointers.
type beanWrapper struct {
	baseWrapper
	original any
	v        reflect.Value // struct value, addressable when reached via pointer
	meta     *schema.ClassMeta
	metaErr  error
}

func newBeanWrapper(a *Accessor, object any) *beanWrapper {
	w := &beanWrapper{baseWrapper: baseWrapper{a: a}, original: object}

	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	w.v = rv

	if rv.IsValid() && rv.Kind() == reflect.Struct {
		w.meta, w.metaErr = a.metaFactory.Meta(rv.Type())
	} else {
		w.metaErr = fmt.Errorf("%w: %T is not a bean, mapping, or sequence target", ErrPropertyNotFound, object)
	}
	return w
}

func (w *beanWrapper) field(name string) (*schema.FieldMeta, reflect.Value, error) {
	if w.metaErr != nil {
		return nil, reflect.Value{}, w.metaErr
	}
	fm := w.meta.Field(name)
	if fm == nil {
		return nil, reflect.Value{}, fmt.Errorf("%w: no property %q on type %s",
			ErrPropertyNotFound, name, w.meta.Type)
	}
	return fm, w.v.FieldByIndex(fm.Index), nil
}

func (w *beanWrapper) Get(seg property.Segment) (any, error) {
	if seg.HasIndex() {
		coll, err := w.resolveCollection(seg, w.original)
		if err != nil {
			return nil, err
		}
		return w.collectionValue(seg, coll)
	}

	_, field, err := w.field(seg.Name)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

func (w *beanWrapper) Set(seg property.Segment, value any) error {
	if seg.HasIndex() {
		// Index through the field value itself so sequence writes hit the
		// live backing array rather than a copy.
		name := seg.Name
		coll := w.v
		if name != "" {
			_, field, err := w.field(name)
			if err != nil {
				return err
			}
			coll = field
		}
		return w.setCollectionValue(seg, coll, value)
	}

	_, field, err := w.field(seg.Name)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("%w: bean target %s is not addressable (wrap a pointer to set properties)",
			ErrUnsupported, w.v.Type())
	}
	return convertAssign(field, value)
}

// ref hands out addressable references for struct-valued fields so nested
// accessors write into this bean rather than a detached copy.
func (w *beanWrapper) ref(seg property.Segment) (any, bool) {
	if seg.HasIndex() {
		if seg.Name == "" {
			return nil, false
		}
		_, field, err := w.field(seg.Name)
		if err != nil {
			return nil, false
		}
		for field.Kind() == reflect.Ptr && !field.IsNil() {
			field = field.Elem()
		}
		if field.Kind() != reflect.Slice {
			return nil, false
		}
		i, err := strconv.Atoi(seg.Index)
		if err != nil || i < 0 || i >= field.Len() {
			return nil, false
		}
		// Slice elements are addressable through the header regardless of
		// the field's own addressability.
		if elem := field.Index(i); elem.Kind() == reflect.Struct {
			return elem.Addr().Interface(), true
		}
		return nil, false
	}
	_, field, err := w.field(seg.Name)
	if err != nil {
		return nil, false
	}
	if field.Kind() == reflect.Struct && field.CanAddr() {
		return field.Addr().Interface(), true
	}
	// Slices compose as pointers so collection mutation propagates.
	if field.Kind() == reflect.Slice && field.CanAddr() && !field.IsNil() {
		return field.Addr().Interface(), true
	}
	return nil, false
}

func (w *beanWrapper) FindProperty(name string, useCamelCase bool) string {
	if w.metaErr != nil {
		return ""
	}
	return w.meta.FindProperty(name, useCamelCase)
}

func (w *beanWrapper) GetterNames() []string {
	if w.metaErr != nil {
		return nil
	}
	return w.meta.FieldNames()
}

func (w *beanWrapper) SetterNames() []string {
	return w.GetterNames()
}

func (w *beanWrapper) GetterType(name string) (reflect.Type, error) {
	if w.metaErr != nil {
		return nil, w.metaErr
	}
	return staticPropertyType(w.meta, name, w.a.metaFactory)
}

func (w *beanWrapper) SetterType(name string) (reflect.Type, error) {
	return w.GetterType(name)
}

func (w *beanWrapper) HasGetter(name string) bool {
	if w.metaErr != nil {
		return false
	}
	return staticHasProperty(w.meta, name, w.a.metaFactory)
}

func (w *beanWrapper) HasSetter(name string) bool {
	return w.HasGetter(name)
}

// InstantiateValue materializes the declared type of the named property. An
// indexed segment materializes the collection first and then, when the
// element type is itself instantiable, the element at that index.
func (w *beanWrapper) InstantiateValue(name string, seg property.Segment, factory ObjectFactory) (*Accessor, error) {
	fm, field, err := w.field(seg.Name)
	if err != nil {
		return nil, err
	}
	if !field.CanSet() {
		return nil, fmt.Errorf("%w: bean target %s is not addressable (wrap a pointer to set properties)",
			ErrUnsupported, w.v.Type())
	}

	if !seg.HasIndex() {
		obj, err := factory.Create(fm.Type)
		if err != nil {
			return nil, fmt.Errorf("cannot instantiate property %q: %w", name, err)
		}
		if err := convertAssign(field, obj); err != nil {
			return nil, err
		}
		return w.a.AccessorFor(seg.IndexedName)
	}

	switch field.Kind() {
	case reflect.Map:
		if field.IsNil() {
			field.Set(reflect.MakeMap(field.Type()))
		}
		key, err := mapKey(field.Type().Key(), seg.Index)
		if err != nil {
			return nil, err
		}
		if !field.MapIndex(key).IsValid() {
			elem, err := factory.Create(field.Type().Elem())
			if err != nil {
				return nil, fmt.Errorf("cannot instantiate element of property %q: %w", name, err)
			}
			ev, err := convertValue(elem, field.Type().Elem())
			if err != nil {
				return nil, err
			}
			field.SetMapIndex(key, ev)
		}

	case reflect.Slice:
		idx, err := strconv.Atoi(seg.Index)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: non-numeric index %q for sequence property %q",
				ErrTypeMismatch, seg.Index, seg.IndexedName)
		}
		if field.Len() <= idx {
			grown := reflect.MakeSlice(field.Type(), idx+1, idx+1)
			reflect.Copy(grown, field)
			field.Set(grown)
		}
		elem := field.Index(idx)
		if isNilable(elem.Kind()) && elem.IsNil() {
			obj, err := factory.Create(elem.Type())
			if err != nil {
				return nil, fmt.Errorf("cannot instantiate element of property %q: %w", name, err)
			}
			if err := convertAssign(elem, obj); err != nil {
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("%w: property %q (%s) does not accept an index",
			ErrTypeMismatch, seg.IndexedName, field.Kind())
	}

	return w.a.AccessorFor(seg.IndexedName)
}

func (w *beanWrapper) IsCollection() bool { return false }

func (w *beanWrapper) Add(element any) error {
	return fmt.Errorf("%w: add on a bean target", ErrUnsupported)
}

func (w *beanWrapper) AddAll(elements []any) error {
	return fmt.Errorf("%w: addAll on a bean target", ErrUnsupported)
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return true
	default:
		return false
	}
}

// staticPropertyType walks a dotted path through declared metadata only,
// without touching runtime values. Untyped levels (maps, interfaces) resolve
// to the generic object type.
func staticPropertyType(meta *schema.ClassMeta, name string, mf MetaFactory) (reflect.Type, error) {
	seg := property.Parse(name)
	fm := meta.Field(seg.Name)
	if fm == nil {
		return nil, fmt.Errorf("%w: no property %q on type %s", ErrPropertyNotFound, seg.Name, meta.Type)
	}

	t := fm.Type
	if seg.HasIndex() && fm.ElemType != nil {
		t = fm.ElemType
	}
	if !seg.HasNext() {
		return t, nil
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		child, err := mf.Meta(t)
		if err != nil {
			return nil, err
		}
		return staticPropertyType(child, seg.Children, mf)
	case reflect.Map, reflect.Interface:
		return interfaceType, nil
	default:
		return nil, fmt.Errorf("%w: property %q (%s) has no nested properties",
			ErrPropertyNotFound, seg.IndexedName, t)
	}
}

// staticHasProperty mirrors staticPropertyType but only answers existence;
// untyped levels are permissive.
func staticHasProperty(meta *schema.ClassMeta, name string, mf MetaFactory) bool {
	seg := property.Parse(name)
	fm := meta.Field(seg.Name)
	if fm == nil {
		return false
	}
	if !seg.HasNext() {
		return true
	}

	t := fm.Type
	if seg.HasIndex() && fm.ElemType != nil {
		t = fm.ElemType
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		child, err := mf.Meta(t)
		if err != nil {
			return false
		}
		return staticHasProperty(child, seg.Children, mf)
	case reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
