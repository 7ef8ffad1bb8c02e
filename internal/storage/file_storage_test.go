package storage

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) *LocalFileStorage {
	t.Helper()
	s, err := NewLocalFileStorage(filepath.Join(t.TempDir(), "uploads"), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestLocalFileStorage_SaveAndRead(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.Save("receipt.jpg", []byte("image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_receipt.jpg"))

	content, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), content)
}

func TestLocalFileStorage_SaveStripsDirectories(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_passwd"))
	assert.Contains(t, path, "uploads")
}

func TestLocalFileStorage_ReadRejectsEscape(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Read("/etc/passwd")
	assert.Error(t, err)
}

func TestLocalFileStorage_Remove(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.Save("receipt.jpg", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Remove(path))

	_, err = s.Read(path)
	assert.Error(t, err)

	// Removing twice is not an error
	assert.NoError(t, s.Remove(path))
}

func TestLocalFileStorage_RemoveAll(t *testing.T) {
	s := newTestStorage(t)

	first, err := s.Save("a.jpg", []byte("a"))
	require.NoError(t, err)
	second, err := s.Save("b.jpg", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveAll())

	_, err = s.Read(first)
	assert.Error(t, err)
	_, err = s.Read(second)
	assert.Error(t, err)

	// Directory is recreated so new saves still work
	_, err = s.Save("c.jpg", []byte("c"))
	assert.NoError(t, err)
}
