package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remapkit/remap/rowtype"
)

func TestSQLRowsSourceColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("BIGINT", int64(0)),
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
		sqlmock.NewColumn("created_at").OfType("TIMESTAMP", time.Time{}),
		sqlmock.NewColumn("mystery").OfType("GEOGRAPHY", nil),
	).AddRow(int64(1), "Ada", time.Now(), nil)

	mock.ExpectQuery("SELECT .+ FROM users").WillReturnRows(rows)

	result, err := db.Query("SELECT id, name, created_at, mystery FROM users")
	require.NoError(t, err)
	defer result.Close()

	columns, err := NewSQLRowsSource(result).Columns(true)
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, rowtype.Column{Name: "id", SQLType: rowtype.BigInt, ClassName: "int64"}, columns[0])
	assert.Equal(t, "name", columns[1].Name)
	assert.Equal(t, rowtype.Varchar, columns[1].SQLType)
	assert.Equal(t, rowtype.Timestamp, columns[2].SQLType)
	assert.Equal(t, "time.Time", columns[2].ClassName)
	assert.Equal(t, rowtype.Other, columns[3].SQLType, "unrecognized driver types carry no signal")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRowsSourceFeedsResolver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INT8", int64(0)),
		sqlmock.NewColumn("name").OfType("TEXT", ""),
	).AddRow(int64(1), "Ada")

	mock.ExpectQuery("SELECT .+").WillReturnRows(rows)

	result, err := db.Query("SELECT id, name FROM users")
	require.NoError(t, err)
	defer result.Close()

	resolver, err := rowtype.NewResolver(NewSQLRowsSource(result), rowtype.DefaultRegistry(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, resolver.ColumnNames())

	// Untyped target: the reported scan class picks the converter.
	c := resolver.Resolve("id", nil)
	got, err := c.FromColumn("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}
