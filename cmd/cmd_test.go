package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = "../internal/catalog/testdata/catalog.yaml"

// run executes the root command with args against the database at db and
// returns what it printed.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--db", db))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, args...)
	require.NoError(t, err, "pathwise %s\n%s", strings.Join(args, " "), out)
	return out
}

func writeZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("schema.sql")
	require.NoError(t, err)
	_, err = w.Write([]byte("create table items (id integer primary key);"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestLearnerWalkthrough(t *testing.T) {
	t.Setenv("PATHWISE_LOG_MODE", "prod")
	dir := t.TempDir()
	db := filepath.Join(dir, "pathwise.db")

	out := mustRun(t, db, "catalog", "validate", sampleCatalog)
	assert.Contains(t, out, "ok (v1.2.0, 4 skills, 2 projects, 6 tasks)")

	out = mustRun(t, db, "catalog", "seed", sampleCatalog)
	assert.Contains(t, out, "skills: 4 created, 0 reused")
	assert.Contains(t, out, "projects: 2 created (6 tasks)")

	out = mustRun(t, db, "catalog", "seed", sampleCatalog)
	assert.Contains(t, out, "skipped existing: Inventory API, Hello CLI")

	out = mustRun(t, db, "user", "add", "ada")
	assert.Contains(t, out, "created user 1 (ada)")

	out = mustRun(t, db, "user", "skills", "1", "sql", "go:intermediate")
	assert.Contains(t, out, "go (intermediate)")
	assert.Contains(t, out, "sql")

	// Inventory API: 100% x 2, Hello CLI: 100% x 1.
	out = mustRun(t, db, "dashboard", "--user", "1")
	inv, hello := strings.Index(out, "Inventory API"), strings.Index(out, "Hello CLI")
	require.NotEqual(t, -1, inv)
	require.NotEqual(t, -1, hello)
	assert.Less(t, inv, hello)

	out = mustRun(t, db, "enroll", "1", "--user", "1")
	assert.Contains(t, out, "enrolled in project 1 with 4 tasks")

	out = mustRun(t, db, "enroll", "1", "--user", "1")
	assert.Contains(t, out, "already enrolled (0%)")

	out = mustRun(t, db, "project", "view", "1", "--user", "1")
	assert.Contains(t, out, "enrolled: 0% (in_progress)")
	assert.Contains(t, out, "next: Design the schema (task 1)")

	archive := filepath.Join(dir, "schema.zip")
	writeZip(t, archive)
	out = mustRun(t, db, "submit", "1", archive, "--user", "1")
	assert.Contains(t, out, "attempt 1: score 100")
	assert.Contains(t, out, "passed, project progress 25%")
	assert.Contains(t, out, "unlocked task 2")
	assert.Contains(t, out, "unlocked task 3")

	out = mustRun(t, db, "project", "view", "1", "--user", "1")
	assert.Contains(t, out, "missing skills: http")
	assert.Contains(t, out, "enrolled: 25% (in_progress)")

	out = mustRun(t, db, "stats", "--user", "1")
	assert.Contains(t, out, "Inventory API")
	assert.Contains(t, out, "1 enrolled, 0 completed")

	_, err := run(t, db, "submit", "4", archive, "--user", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	out = mustRun(t, db, "unenroll", "1", "--user", "1")
	assert.Contains(t, out, "left project 1 (removed 4 tasks, 1 submissions)")

	out = mustRun(t, db, "unenroll", "1", "--user", "1")
	assert.Contains(t, out, "not enrolled")

	entries, err := os.ReadDir(filepath.Join(dir, "blobs", "submissions"))
	if err == nil {
		for _, e := range entries {
			files, _ := os.ReadDir(filepath.Join(dir, "blobs", "submissions", e.Name()))
			assert.Empty(t, files, "submission blobs are removed on unenroll")
		}
	}
}

func TestProjectViewUnknownProject(t *testing.T) {
	t.Setenv("PATHWISE_LOG_MODE", "prod")
	db := filepath.Join(t.TempDir(), "pathwise.db")

	mustRun(t, db, "user", "add", "ada")
	_, err := run(t, db, "project", "view", "42", "--user", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseID(t *testing.T) {
	id, err := parseID("task", "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, bad := range []string{"", "0", "-3", "seven"} {
		_, err := parseID("task", bad)
		assert.Error(t, err, bad)
	}
}
