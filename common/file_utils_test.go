package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string `json:"name"`
	Retries int    `json:"retries"`
}

func TestLoadJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cip68_config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "TEST", "retries": 4}`), 0600))

	config, err := LoadConfig[testConfig](path, "cip68")
	require.NoError(t, err)
	require.Equal(t, &testConfig{Name: "TEST", Retries: 4}, config)

	_, err = LoadJson[testConfig](filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "failed to open")

	require.NoError(t, os.WriteFile(path, []byte(`{"name": 1}`), 0600))

	_, err = LoadJson[testConfig](path)
	require.ErrorContains(t, err, "failed to decode")
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, CreateDirectoryIfNotExists(dir))
	require.NoError(t, CreateDirectoryIfNotExists(dir))
	require.DirExists(t, dir)
}
