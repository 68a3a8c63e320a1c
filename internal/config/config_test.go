package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoheroes", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, "all", cfg.DefaultFilter)
	assert.Equal(t, 3, cfg.UndoSeconds)
	assert.Equal(t, filepath.Join(filepath.Dir(path), DefaultStoreName), cfg.StorePath)
	assert.Equal(t, "a", cfg.Keys.Add)
	assert.Equal(t, "u", cfg.Keys.Undo)

	// A second load reads the file it just wrote.
	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateParsesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	body := `
store_path = "/tmp/elsewhere.db"
default_filter = "pending"
undo_seconds = 10

[keys]
quit = "Q"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.db", cfg.StorePath)
	assert.Equal(t, "pending", cfg.DefaultFilter)
	assert.Equal(t, 10, cfg.UndoSeconds)
	assert.Equal(t, "Q", cfg.Keys.Quit)
	// Unset fields keep their defaults.
	assert.Equal(t, "a", cfg.Keys.Add)
}

func TestLoadOrCreateFillsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`undo_seconds = 0`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultStoreName), cfg.StorePath)
	assert.Equal(t, filepath.Join(dir, DefaultLogName), cfg.LogPath)
	assert.Equal(t, 3, cfg.UndoSeconds, "non-positive undo window falls back")
}

func TestLoadOrCreateRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("store_path = ["), 0o644))

	_, err := LoadOrCreate(path)
	assert.Error(t, err)
}
