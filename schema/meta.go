package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// buildMeta constructs accessor metadata for a struct type: per-field type
// information plus the lookup maps used for case-insensitive and column-name
// property resolution.
//
// This performs the expensive reflection walk once; Introspect caches the
// result so repeated path resolution against the same type is map lookups
// only.
func buildMeta(t reflect.Type) (*ClassMeta, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("invalid bean type: %s (expected struct)", t.Kind())
	}

	parser := NewTagParser()

	numFields := t.NumField()
	exportedCount := 0
	for i := 0; i < numFields; i++ {
		if t.Field(i).IsExported() && !t.Field(i).Anonymous {
			exportedCount++
		}
	}

	meta := &ClassMeta{
		Type:            t,
		Name:            t.Name(),
		Fields:          make([]*FieldMeta, 0, exportedCount),
		FieldMap:        make(map[string]*FieldMeta, exportedCount),
		ColumnMap:       make(map[string]*FieldMeta, exportedCount),
		caseInsensitive: make(map[string]string, exportedCount),
	}

	for i := 0; i < numFields; i++ {
		f := t.Field(i)

		// Anonymous embedded fields could be flattened in future; for now
		// they are resolved like any other path level by the accessor.
		if !f.IsExported() || f.Anonymous {
			continue
		}

		parsedTag, err := parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, fmt.Errorf("error parsing tag for field %s: %w", f.Name, err)
		}

		if parsedTag.IsSkipped() {
			continue
		}

		fm := &FieldMeta{
			Name:   f.Name,
			Column: parsedTag.ColumnName,
			Type:   f.Type,
			Index:  f.Index,
		}
		fm.ElemType = elementType(f.Type)

		meta.Fields = append(meta.Fields, fm)
		meta.FieldMap[f.Name] = fm
		meta.ColumnMap[parsedTag.ColumnName] = fm
		meta.caseInsensitive[strings.ToUpper(f.Name)] = f.Name
		meta.caseInsensitive[strings.ToUpper(parsedTag.ColumnName)] = f.Name
	}

	return meta, nil
}

// elementType reports the element type of slice, array, and map fields, nil
// for everything else. Indexed path segments resolve against it.
func elementType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	default:
		return nil
	}
}

// FindProperty canonicalizes a supplied property path to actual field names,
// matching case-insensitively at every level. With camel enabled, underscores
// in the supplied name are stripped first, so "first_name" resolves the
// FirstName field. Returns "" when any level fails to resolve.
func (m *ClassMeta) FindProperty(name string, camel bool) string {
	if camel {
		name = strings.ReplaceAll(name, "_", "")
	}

	var sb strings.Builder
	meta := m
	for rest := name; ; {
		head := rest
		if dot := strings.IndexByte(rest, '.'); dot >= 0 {
			head = rest[:dot]
			rest = rest[dot+1:]
		} else {
			rest = ""
		}

		// Bracket indices pass through untouched; only the bare name is
		// matched against the field set.
		index := ""
		if open := strings.IndexByte(head, '['); open >= 0 && strings.HasSuffix(head, "]") {
			index = head[open:]
			head = head[:open]
		}

		canonical, ok := meta.caseInsensitive[strings.ToUpper(head)]
		if !ok {
			return ""
		}
		sb.WriteString(canonical)
		sb.WriteString(index)

		if rest == "" {
			return sb.String()
		}
		sb.WriteByte('.')

		next := meta.FieldMap[canonical].Type
		if index != "" && meta.FieldMap[canonical].ElemType != nil {
			next = meta.FieldMap[canonical].ElemType
		}
		child, err := Introspect(next)
		if err != nil {
			return ""
		}
		meta = child
	}
}

// HasField reports whether a field resolves for the supplied name
// (case-insensitive, no camel normalization).
func (m *ClassMeta) HasField(name string) bool {
	_, ok := m.caseInsensitive[strings.ToUpper(name)]
	return ok
}

// Field returns metadata for a supplied name after case-insensitive
// canonicalization, or nil when no field matches.
func (m *ClassMeta) Field(name string) *FieldMeta {
	canonical, ok := m.caseInsensitive[strings.ToUpper(name)]
	if !ok {
		return nil
	}
	return m.FieldMap[canonical]
}

// FieldNames returns the canonical field names in declaration order.
func (m *ClassMeta) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}
