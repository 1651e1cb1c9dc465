package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acekit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nquality_threshold: 20\nbase_segments: true\n"), 0o644))

	cfg, err := Load(path, envMap(map[string]string{"ACEKIT_QUALITY_THRESHOLD": "30", "ACEKIT_OUTPUT": "tsv"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.QualityThreshold)
	assert.True(t, cfg.BaseSegments)
	assert.Equal(t, "tsv", cfg.Output)
	assert.Equal(t, 4, cfg.QueueSize)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"), noEnv)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("no_such_key: 1\n"), 0o644))
	_, err = Load(bad, noEnv)
	assert.Error(t, err)

	chdir(t, dir)
	_, err = Load("", envMap(map[string]string{"ACEKIT_QUEUE_SIZE": "many"}))
	assert.Error(t, err)
	_, err = Load("", envMap(map[string]string{"ACEKIT_OUTPUT": "xml"}))
	assert.Error(t, err)
}
