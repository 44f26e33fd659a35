package schema

import (
	"reflect"
	"strings"
	"sync"
)

// ParsedTag holds the column-mapping configuration extracted from a struct
// field's `db` tag.
type ParsedTag struct {
	ColumnName string // declared column name, or derived from the field name
	Skip       bool   // skip this field entirely (db:"-")
}

// IsSkipped returns true if this field should be skipped entirely.
func (tag *ParsedTag) IsSkipped() bool {
	return tag.Skip
}

// TagParser parses `db` struct tags into column mappings, caching results to
// avoid repeated string parsing for identical tags.
type TagParser struct {
	cache   map[string]*ParsedTag
	cacheMu sync.RWMutex
}

// NewTagParser creates a tag parser with snake_case column derivation for
// untagged fields.
func NewTagParser() *TagParser {
	return &TagParser{
		cache: make(map[string]*ParsedTag, 64),
	}
}

// ParseTag parses a field's `db` tag.
//
// Supported syntax:
//
//	`db:"column_name"`          // explicit column mapping
//	`db:"column:custom_name"`   // explicit column mapping, long form
//	`db:"-"`                    // skip field entirely
//
// Untagged fields map to the snake_case form of the field name. Option lists
// carrying keys this layer does not know (constraints, generators) keep only
// their column directive; the rest is ignored for forward compatibility.
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	tagValue := tag.Get("db")

	if tagValue == "" {
		return &ParsedTag{ColumnName: toSnakeCase(fieldName)}, nil
	}

	cacheKey := fieldName + ":" + tagValue
	p.cacheMu.RLock()
	if cached, exists := p.cache[cacheKey]; exists {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed := p.parseTagValue(fieldName, tagValue)

	p.cacheMu.Lock()
	p.cache[cacheKey] = parsed
	p.cacheMu.Unlock()

	return parsed, nil
}

func (p *TagParser) parseTagValue(fieldName, tagValue string) *ParsedTag {
	if tagValue == "-" {
		return &ParsedTag{Skip: true}
	}

	parsed := &ParsedTag{ColumnName: toSnakeCase(fieldName)}

	// Simple column name is the common case.
	if !strings.ContainsAny(tagValue, ";:") {
		parsed.ColumnName = tagValue
		return parsed
	}

	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if colonIdx := strings.IndexByte(option, ':'); colonIdx != -1 {
			key := strings.TrimSpace(option[:colonIdx])
			value := strings.TrimSpace(option[colonIdx+1:])
			if key == "column" || key == "name" {
				parsed.ColumnName = value
			}
		}
	}

	return parsed
}
