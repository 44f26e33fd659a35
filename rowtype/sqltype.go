// Package rowtype matches result-set columns to value converters. A Resolver
// snapshots one row shape's column metadata, then resolves and memoizes the
// converter for each (column, requested property type) pair through a
// deterministic fallback chain, and partitions column names into mapped and
// unmapped sets per result shape.
package rowtype

import "strings"

// SQLType is the semantic column type reported by a metadata source, the
// driver-independent equivalent of a SQL type code.
type SQLType int

const (
	Unknown SQLType = iota
	Varchar
	Char
	Text
	SmallInt
	Integer
	BigInt
	Real
	Double
	Numeric
	Boolean
	Date
	Time
	Timestamp
	TimestampTZ
	Binary
	JSON
	JSONB
	UUID
	Other
)

var sqlTypeNames = map[SQLType]string{
	Unknown:     "UNKNOWN",
	Varchar:     "VARCHAR",
	Char:        "CHAR",
	Text:        "TEXT",
	SmallInt:    "SMALLINT",
	Integer:     "INTEGER",
	BigInt:      "BIGINT",
	Real:        "REAL",
	Double:      "DOUBLE",
	Numeric:     "NUMERIC",
	Boolean:     "BOOLEAN",
	Date:        "DATE",
	Time:        "TIME",
	Timestamp:   "TIMESTAMP",
	TimestampTZ: "TIMESTAMPTZ",
	Binary:      "BINARY",
	JSON:        "JSON",
	JSONB:       "JSONB",
	UUID:        "UUID",
	Other:       "OTHER",
}

func (t SQLType) String() string {
	if s, ok := sqlTypeNames[t]; ok {
		return s
	}
	return "OTHER"
}

// driver type-name aliases beyond the canonical names above. Covers the
// spellings database/sql drivers commonly report from DatabaseTypeName.
var sqlTypeAliases = map[string]SQLType{
	"CHARACTER VARYING":           Varchar,
	"VARCHAR2":                    Varchar,
	"NVARCHAR":                    Varchar,
	"CHARACTER":                   Char,
	"BPCHAR":                      Char,
	"NAME":                        Text,
	"INT2":                        SmallInt,
	"INT":                         Integer,
	"INT4":                        Integer,
	"SERIAL":                      Integer,
	"INT8":                        BigInt,
	"BIGSERIAL":                   BigInt,
	"FLOAT4":                      Real,
	"FLOAT8":                      Double,
	"DOUBLE PRECISION":            Double,
	"FLOAT":                       Double,
	"DECIMAL":                     Numeric,
	"BOOL":                        Boolean,
	"TIMESTAMP WITHOUT TIME ZONE": Timestamp,
	"DATETIME":                    Timestamp,
	"TIMESTAMP WITH TIME ZONE":    TimestampTZ,
	"BYTEA":                       Binary,
	"BLOB":                        Binary,
	"VARBINARY":                   Binary,
}

// ParseSQLType translates a driver-reported type name to its semantic
// SQLType. Unrecognized names map to Other, never an error; the resolver's
// fallback chain handles columns with no usable type signal.
func ParseSQLType(databaseTypeName string) SQLType {
	name := strings.ToUpper(strings.TrimSpace(databaseTypeName))
	if name == "" {
		return Unknown
	}
	for t, s := range sqlTypeNames {
		if s == name {
			return t
		}
	}
	if t, ok := sqlTypeAliases[name]; ok {
		return t
	}
	return Other
}
