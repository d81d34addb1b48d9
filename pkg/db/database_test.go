package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", withForeignKeys(":memory:"))
	assert.Equal(t, "file:shofy.db?cache=shared&_pragma=foreign_keys(1)", withForeignKeys("file:shofy.db?cache=shared"))
	assert.Equal(t, "file:x.db?_pragma=foreign_keys(1)", withForeignKeys("file:x.db?_pragma=foreign_keys(1)"))
}

func TestOpen_SQLiteEnablesForeignKeys(t *testing.T) {
	gdb, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	var enabled int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
	assert.NoError(t, Ping(context.Background(), gdb))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	assert.EqualError(t, err, "DATABASE_URL is empty")

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.EqualError(t, err, `unsupported db driver "mysql"`)
}
