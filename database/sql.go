// Package database adapts concrete driver row sources to the column
// metadata snapshot the rowtype resolver consumes.
package database

import (
	"database/sql"
	"fmt"

	"github.com/remapkit/remap/rowtype"
)

// SQLRowsSource reads column metadata from a database/sql result. The
// standard library exposes a single name per column, so the display-label
// flag has no effect here: drivers already report the AS alias as the name.
type SQLRowsSource struct {
	rows *sql.Rows
}

// NewSQLRowsSource wraps an open *sql.Rows.
func NewSQLRowsSource(rows *sql.Rows) *SQLRowsSource {
	return &SQLRowsSource{rows: rows}
}

// Columns snapshots the result's column descriptors: name, semantic column
// type parsed from the driver's type name, and the scan type's name as the
// runtime class.
func (s *SQLRowsSource) Columns(useColumnLabel bool) ([]rowtype.Column, error) {
	types, err := s.rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read column metadata: %w", err)
	}

	columns := make([]rowtype.Column, len(types))
	for i, ct := range types {
		col := rowtype.Column{
			Name:    ct.Name(),
			SQLType: rowtype.ParseSQLType(ct.DatabaseTypeName()),
		}
		if st := ct.ScanType(); st != nil {
			col.ClassName = st.String()
		}
		columns[i] = col
	}
	return columns, nil
}

var _ rowtype.MetadataSource = (*SQLRowsSource)(nil)
