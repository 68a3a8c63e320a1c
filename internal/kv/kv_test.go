package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("k", "v1"))
	require.NoError(t, m.Set("k", "v2"))
	got, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", got)
}

func TestMemoryFailWrites(t *testing.T) {
	m := NewMemory()
	m.FailWrites = true

	assert.ErrorIs(t, m.Set("k", "v"), ErrWriteFailed)
	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := Open(path)
	require.NoError(t, err)

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("todoHeroes:v1:filter", "pending"))
	require.NoError(t, s.Set("todoHeroes:v1:filter", "completed"))
	got, ok, err := s.Get("todoHeroes:v1:filter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "completed", got)
	require.NoError(t, s.Close())

	// Values survive reopening the same file.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, ok, err = s.Get("todoHeroes:v1:filter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "completed", got)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "kv.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set("k", "v"))
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
