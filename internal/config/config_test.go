package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origWd) })
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/planr/planr.yml", GlobalPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	assert.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
	assert.Equal(t, "planr.yml", filepath.Base(got))
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	require.NoError(t, WriteGlobal(&Config{
		Period:    "monthly",
		DataDir:   ".global",
		LogLevel:  "warn",
		StartStep: "users",
	}))
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("data_dir: .project\n"), 0644))
	t.Setenv("PLANR_LOG_LEVEL", "debug")
	t.Setenv("PLANR_LOCK_ON_COMPLETE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "monthly", cfg.Period, "global value survives")
	assert.Equal(t, ".project", cfg.DataDir, "project overrides global")
	assert.Equal(t, "debug", cfg.LogLevel, "env overrides files")
	assert.True(t, cfg.LockOnComplete)
	assert.Equal(t, "users", cfg.StartStep)
}

func TestLoad_InvalidPeriod(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("PLANR_PERIOD", "daily")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid period")
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	assert.False(t, Exists())

	require.NoError(t, WriteProject(Default()))
	assert.True(t, Exists())
}

func TestWriteGlobal(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	cfg := &Config{
		Period:         "monthly",
		DataDir:        ".test",
		LogLevel:       "debug",
		LogFile:        "/tmp/test.log",
		LockOnComplete: true,
		StartStep:      "tasks",
	}
	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)

	content := string(data)
	for _, field := range []string{
		"period: monthly",
		"data_dir: .test",
		"log_level: debug",
		"log_file: /tmp/test.log",
		"lock_on_complete: true",
		"start_step: tasks",
	} {
		assert.Contains(t, content, field)
	}
}
