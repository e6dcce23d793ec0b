package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "sql/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestInitMigrationCreatesTables(t *testing.T) {
	body, err := fs.ReadFile(migrationFiles, "sql/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS recipients")
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS alert_logs")
}
