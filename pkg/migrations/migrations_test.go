package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFromDir_SortsByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "000002_properties.up.sql", "CREATE TABLE properties ();")
	writeMigration(t, dir, "000001_users.up.sql", "CREATE TABLE users ();")
	writeMigration(t, dir, "000003_attachments.up.sql", "CREATE TABLE documents ();")

	migs, err := LoadFromDir(dir, "up")
	require.NoError(t, err)

	assert.Equal(t, []string{"000001", "000002", "000003"}, Versions(migs))
	assert.Equal(t, "users", migs[0].Name)
	assert.Equal(t, "up", migs[0].Direction)
}

func TestLoadFromDir_FiltersByDirection(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "000001_users.up.sql", "CREATE TABLE users ();")
	writeMigration(t, dir, "000001_users.down.sql", "DROP TABLE users;")

	ups, err := LoadFromDir(dir, "up")
	require.NoError(t, err)
	downs, err := LoadFromDir(dir, "down")
	require.NoError(t, err)

	require.Len(t, ups, 1)
	require.Len(t, downs, 1)
	assert.Equal(t, "down", downs[0].Direction)
}

func TestLoadFromDir_SkipsUnparseableNames(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "000001_users.up.sql", "CREATE TABLE users ();")
	writeMigration(t, dir, "README.md", "not a migration")
	writeMigration(t, dir, "noversion.up.sql", "SELECT 1;")

	migs, err := LoadFromDir(dir, "up")
	require.NoError(t, err)

	require.Len(t, migs, 1)
	assert.Equal(t, "000001", migs[0].Version)
}

func TestReadContent(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "000001_users.up.sql", "CREATE TABLE users ();")

	migs, err := LoadFromDir(dir, "up")
	require.NoError(t, err)
	require.Len(t, migs, 1)

	content, err := ReadContent(migs[0])
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE users ();", string(content))
}
