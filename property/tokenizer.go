// Package property splits dotted, optionally indexed property expressions
// like "orders[0].customer.name" into head/tail segments for the accessor
// layer to walk.
package property

import "strings"

// Segment is the parsed decomposition of one property expression: the head
// name, an optional bracket index, and the unparsed remainder after the
// first dot.
//
// Invariant: IndexedName equals Name when no index is present, otherwise it
// is "name[index]" exactly as written. Children is empty for a terminal
// segment.
type Segment struct {
	Name        string
	Index       string
	IndexedName string
	Children    string
	hasIndex    bool
}

// Parse tokenizes the first segment of a property path. It is a pure
// function: no validation of index content happens here, since non-numeric
// indices are legal against keyed-mapping targets. Parsing an empty string
// yields a segment with an empty name.
func Parse(path string) Segment {
	var s Segment

	if delim := strings.IndexByte(path, '.'); delim >= 0 {
		s.Name = path[:delim]
		s.Children = path[delim+1:]
	} else {
		s.Name = path
	}
	s.IndexedName = s.Name

	if open := strings.IndexByte(s.Name, '['); open >= 0 && strings.HasSuffix(s.Name, "]") {
		s.Index = s.Name[open+1 : len(s.Name)-1]
		s.Name = s.Name[:open]
		s.hasIndex = true
	}

	return s
}

// HasIndex reports whether the segment carried a bracket index. An empty
// index string inside brackets still counts as indexed.
func (s Segment) HasIndex() bool { return s.hasIndex }

// HasNext reports whether a tail remains after this segment.
func (s Segment) HasNext() bool { return s.Children != "" }

// Next tokenizes the tail of the path.
func (s Segment) Next() Segment { return Parse(s.Children) }

// String reassembles the full expression this segment was parsed from.
func (s Segment) String() string {
	if s.Children == "" {
		return s.IndexedName
	}
	return s.IndexedName + "." + s.Children
}
