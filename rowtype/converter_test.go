package rowtype

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLTypeParsing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SQLType
	}{
		{name: "Canonical", input: "VARCHAR", expected: Varchar},
		{name: "LowerCase", input: "varchar", expected: Varchar},
		{name: "PostgresAlias", input: "INT8", expected: BigInt},
		{name: "SpacedAlias", input: "DOUBLE PRECISION", expected: Double},
		{name: "Timestamp", input: "TIMESTAMP WITH TIME ZONE", expected: TimestampTZ},
		{name: "Empty", input: "", expected: Unknown},
		{name: "Unrecognized", input: "GEOGRAPHY", expected: Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSQLType(tt.input))
		})
	}
}

func TestScalarConverters(t *testing.T) {
	tests := []struct {
		name      string
		converter Converter
		src       any
		expected  any
	}{
		{name: "StringFromBytes", converter: stringConverter{}, src: []byte("abc"), expected: "abc"},
		{name: "StringPassThrough", converter: stringConverter{}, src: "abc", expected: "abc"},
		{name: "Int64FromText", converter: int64Converter{}, src: "42", expected: int64(42)},
		{name: "Int64FromInt32", converter: int64Converter{}, src: int32(7), expected: int64(7)},
		{name: "Int64FromWholeFloat", converter: int64Converter{}, src: float64(7), expected: int64(7)},
		{name: "Float64FromText", converter: float64Converter{}, src: []byte("2.5"), expected: 2.5},
		{name: "BoolFromInt", converter: boolConverter{}, src: int64(1), expected: true},
		{name: "BoolFromText", converter: boolConverter{}, src: "false", expected: false},
		{name: "BytesFromString", converter: bytesConverter{}, src: "xy", expected: []byte("xy")},
		{name: "NilPassThrough", converter: int64Converter{}, src: nil, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.converter.FromColumn(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScalarConverterRejectsGarbage(t *testing.T) {
	_, err := int64Converter{}.FromColumn("not a number")
	assert.Error(t, err)

	_, err = boolConverter{}.FromColumn([]byte("maybe"))
	assert.Error(t, err)

	_, err = int64Converter{}.FromColumn(7.9)
	assert.Error(t, err, "fractional values never truncate silently")
}

func TestTimeConverter(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

	got, err := timeConverter{}.FromColumn(now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = timeConverter{}.FromColumn("2026-08-23 10:30:00")
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = timeConverter{}.FromColumn([]byte("2026-08-23"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), got)

	_, err = timeConverter{}.FromColumn("yesterday-ish")
	assert.Error(t, err)
}

func TestJSONConverter(t *testing.T) {
	got, err := jsonConverter{}.FromColumn([]byte(`{"a": 1, "b": ["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": []any{"x"}}, got)

	raw, err := jsonConverter{}.ToColumn(map[string]any{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, string(raw.([]byte)))
}

func TestUUIDConverter(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name string
		src  any
	}{
		{name: "FromString", src: id.String()},
		{name: "FromTextBytes", src: []byte(id.String())},
		{name: "FromRawBytes", src: id[:]},
		{name: "PassThrough", src: id},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uuidConverter{}.FromColumn(tt.src)
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}

	col, err := uuidConverter{}.ToColumn(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), col)
}

func TestULIDConverter(t *testing.T) {
	id := ulid.MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")

	got, err := ulidConverter{}.FromColumn(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = ulidConverter{}.FromColumn(id[:])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	col, err := ulidConverter{}.ToColumn(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), col)
}

func TestDefaultRegistryResolution(t *testing.T) {
	reg := DefaultRegistry()

	r := NewResolverFromColumns([]Column{
		{Name: "id", SQLType: BigInt, ClassName: "int64"},
		{Name: "name", SQLType: Varchar, ClassName: "string"},
		{Name: "external_id", SQLType: Varchar, ClassName: "string"},
		{Name: "payload", SQLType: JSONB, ClassName: "map[string]interface {}"},
	}, reg)

	c := r.Resolve("id", int64Type)
	got, err := c.FromColumn("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	// Untyped target: the column's runtime class decides.
	c = r.Resolve("name", nil)
	got, err = c.FromColumn([]byte("Ada"))
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	// A UUID target on a text column takes the exact pair registration.
	c = r.Resolve("external_id", uuidType)
	got, err = c.FromColumn("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	assert.IsType(t, uuid.UUID{}, got)

	c = r.Resolve("payload", mapType)
	got, err = c.FromColumn(`{"n": 3}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(3)}, got)
}
