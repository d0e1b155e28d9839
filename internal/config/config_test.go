package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
	assert.Equal(t, 70, cfg.PassScore)
	assert.Equal(t, 3, cfg.DashboardLimit)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PATHWISE_DB", "/tmp/x.db")
	t.Setenv("PATHWISE_PASS_SCORE", "80")
	t.Setenv("PATHWISE_DASHBOARD_LIMIT", "5")
	t.Setenv("PATHWISE_LOG_MODE", "prod")

	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.Equal(t, 80, cfg.PassScore)
	assert.Equal(t, 5, cfg.DashboardLimit)
	assert.Equal(t, "prod", cfg.LogMode)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pass_score: 60\nblob_dir: /srv/blobs\n"), 0o644))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.PassScore)
	assert.Equal(t, "/srv/blobs", cfg.BlobDir)

	// Environment beats the file.
	t.Setenv("PATHWISE_PASS_SCORE", "90")
	cfg, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.PassScore)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{LogMode: "loud", PassScore: 0, DashboardLimit: 0}
	errs := cfg.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "log_mode", errs[0].Field)
	assert.Equal(t, "pass_score", errs[1].Field)
	assert.Equal(t, "dashboard_limit", errs[2].Field)
	assert.True(t, strings.HasPrefix(errs.Error(), "3 config errors:"))

	assert.Empty(t, Default().Validate())
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PATHWISE_PASS_SCORE", "101")
	v, err := New("")
	require.NoError(t, err)
	_, err = Load(v)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "pass_score", verrs[0].Field)
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATHWISE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := Default()
	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, filepath.Join(dir, "pathwise", "pathwise.db"), cfg.DB)
	assert.Equal(t, filepath.Join(dir, "pathwise", "blobs"), cfg.BlobDir)

	cfg = &Config{DB: "postgres://localhost/pathwise"}
	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, filepath.Join(dir, "pathwise", "blobs"), cfg.BlobDir)

	cfg = &Config{DB: "/data/p.db", BlobDir: "/elsewhere"}
	require.NoError(t, cfg.ResolvePaths())
	assert.Equal(t, "/elsewhere", cfg.BlobDir)
}
