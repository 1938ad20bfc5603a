package migration_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/migration"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "V1__create_users.sql", "CREATE TABLE users (id INT);")
	writeFile(t, dir, "V1.1__add_email.sql", "ALTER TABLE users ADD COLUMN email TEXT;")
	writeFile(t, dir, "R__refresh_views.sql", "SELECT 1;")
	writeFile(t, dir, "U1__undo.sql", "DROP TABLE users;")
	writeFile(t, dir, "notes.txt", "not sql")

	rep := diag.New(io.Discard, false)

	migrations, err := migration.LoadFromDir(dir, rep)
	require.NoError(t, err)
	assert.Len(t, migrations, 2, "only versioned .sql files participate")
}

func TestLoadFromDir_recursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "2024", "q1")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	writeFile(t, dir, "V1__root.sql", "CREATE TABLE a (id INT);")
	writeFile(t, sub, "V2__nested.sql", "CREATE TABLE b (id INT);")

	migrations, err := migration.LoadFromDir(dir, diag.New(io.Discard, false))
	require.NoError(t, err)
	assert.Len(t, migrations, 2)
}

func TestLoadFromDir_badVersionSkippedWithWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "V1.x__broken.sql", "CREATE TABLE a (id INT);")
	writeFile(t, dir, "V2__ok.sql", "CREATE TABLE b (id INT);")

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	migrations, err := migration.LoadFromDir(dir, rep)
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "V1.x__broken.sql")
}

func TestLoadFromDir_missingDirectory(t *testing.T) {
	t.Parallel()

	_, err := migration.LoadFromDir(filepath.Join(t.TempDir(), "nope"), diag.New(io.Discard, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning migrations directory")
}

func TestLoadFromDir_populatesChecksumAndContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sql := "CREATE TABLE users (id INT);"
	writeFile(t, dir, "V1__create_users.sql", sql)

	migrations, err := migration.LoadFromDir(dir, diag.New(io.Discard, false))
	require.NoError(t, err)
	require.Len(t, migrations, 1)

	m := migrations[0]
	assert.Equal(t, "V1__create_users.sql", m.Name)
	assert.Equal(t, migration.Version{1}, m.Version)
	assert.Equal(t, sql, m.SQL)
	assert.Equal(t, migration.ComputeChecksum(sql), m.Checksum)
}
