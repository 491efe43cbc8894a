package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSave_WritesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir)

	path, err := s.Save(context.Background(), "firefox_history_today.csv", []byte("a,b\n1,2"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "firefox_history_today.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temp files left behind.
	assert.Equal(t, []string{"firefox_history_today.csv"}, listDir(t, dir))
}

func TestSave_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir)
	ctx := context.Background()

	first, err := s.Save(ctx, "firefox_history_7_days.csv", []byte("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "firefox_history_7_days.csv", []byte("two"))
	require.NoError(t, err)
	third, err := s.Save(ctx, "firefox_history_7_days.csv", []byte("three"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "firefox_history_7_days.csv"), first)
	assert.Equal(t, filepath.Join(dir, "firefox_history_7_days(1).csv"), second)
	assert.Equal(t, filepath.Join(dir, "firefox_history_7_days(2).csv"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
	data, err = os.ReadFile(third)
	require.NoError(t, err)
	assert.Equal(t, "three", string(data))
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	path, err := NewFileSaver(dir).Save(context.Background(), "x.csv", []byte("x"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSave_RejectsPathInFilename(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir)

	for _, name := range []string{"", "../escape.csv", "sub/x.csv"} {
		_, err := s.Save(context.Background(), name, []byte("x"))
		assert.Error(t, err, name)
	}
	assert.Empty(t, listDir(t, dir))
}

func TestSave_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileSaver(dir).Save(ctx, "x.csv", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, listDir(t, dir))
}

func TestSave_UnwritableDirectory(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewFileSaver(filepath.Join(blocker, "downloads")).Save(context.Background(), "x.csv", []byte("x"))
	assert.Error(t, err)
}
