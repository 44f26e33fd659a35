package database

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/remapkit/remap/rowtype"
)

// pgxOIDTypes maps the PostgreSQL type OIDs pgx reports to semantic column
// types and the runtime class a scan of that column yields.
var pgxOIDTypes = map[uint32]struct {
	sqlType   rowtype.SQLType
	className string
}{
	pgtype.VarcharOID:     {rowtype.Varchar, "string"},
	pgtype.BPCharOID:      {rowtype.Char, "string"},
	pgtype.TextOID:        {rowtype.Text, "string"},
	pgtype.NameOID:        {rowtype.Text, "string"},
	pgtype.Int2OID:        {rowtype.SmallInt, "int16"},
	pgtype.Int4OID:        {rowtype.Integer, "int32"},
	pgtype.Int8OID:        {rowtype.BigInt, "int64"},
	pgtype.Float4OID:      {rowtype.Real, "float32"},
	pgtype.Float8OID:      {rowtype.Double, "float64"},
	pgtype.NumericOID:     {rowtype.Numeric, "float64"},
	pgtype.BoolOID:        {rowtype.Boolean, "bool"},
	pgtype.DateOID:        {rowtype.Date, "time.Time"},
	pgtype.TimeOID:        {rowtype.Time, "time.Time"},
	pgtype.TimestampOID:   {rowtype.Timestamp, "time.Time"},
	pgtype.TimestamptzOID: {rowtype.TimestampTZ, "time.Time"},
	pgtype.ByteaOID:       {rowtype.Binary, "[]uint8"},
	pgtype.JSONOID:        {rowtype.JSON, "map[string]interface {}"},
	pgtype.JSONBOID:       {rowtype.JSONB, "map[string]interface {}"},
	pgtype.UUIDOID:        {rowtype.UUID, "uuid.UUID"},
}

// PgxRowsSource reads column metadata from a pgx result. pgx reports one
// name per field (the AS alias when present), so the display-label flag is
// accepted for interface symmetry only.
type PgxRowsSource struct {
	rows pgx.Rows
}

// NewPgxRowsSource wraps an open pgx.Rows.
func NewPgxRowsSource(rows pgx.Rows) *PgxRowsSource {
	return &PgxRowsSource{rows: rows}
}

// Columns snapshots field descriptions, translating data-type OIDs to
// semantic column types. Unknown OIDs carry no type signal and fall through
// the resolver's fallback chain.
func (p *PgxRowsSource) Columns(useColumnLabel bool) ([]rowtype.Column, error) {
	fields := p.rows.FieldDescriptions()

	columns := make([]rowtype.Column, len(fields))
	for i, fd := range fields {
		col := rowtype.Column{Name: fd.Name, SQLType: rowtype.Other}
		if t, ok := pgxOIDTypes[fd.DataTypeOID]; ok {
			col.SQLType = t.sqlType
			col.ClassName = t.className
		}
		columns[i] = col
	}
	return columns, nil
}

var _ rowtype.MetadataSource = (*PgxRowsSource)(nil)
