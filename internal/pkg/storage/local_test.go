package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files/")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadAndURL(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	key, err := s.Upload(ctx, strings.NewReader("a,b\n"), "reports/u1/report.csv", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "reports/u1/report.csv", key)

	content, err := os.ReadFile(filepath.Join(s.BasePath(), "reports", "u1", "report.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/reports/u1/report.csv", url)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, p := range []string{"../outside.csv", "reports/../../x", "", "."} {
		_, err := s.Upload(ctx, strings.NewReader("x"), p, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	key, err := s.Upload(ctx, strings.NewReader("x"), "a/b.txt", "text/plain")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_UploadHonoursCancelledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Upload(ctx, strings.NewReader("x"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStorage_DeleteOlderThan(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	oldKey, err := s.Upload(ctx, strings.NewReader("old"), "reports/u1/old.csv", "text/csv")
	require.NoError(t, err)
	newKey, err := s.Upload(ctx, strings.NewReader("new"), "reports/u2/new.csv", "text/csv")
	require.NoError(t, err)
	otherKey, err := s.Upload(ctx, strings.NewReader("keep"), "avatars/old.png", "image/png")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.BasePath(), "reports", "u1", "old.csv"), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(s.BasePath(), "avatars", "old.png"), past, past))

	removed, err := s.DeleteOlderThan(ctx, "reports", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{oldKey}, removed)

	for key, want := range map[string]bool{oldKey: false, newKey: true, otherKey: true} {
		ok, err := s.Exists(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, ok, key)
	}
}

func TestLocalStorage_DeleteOlderThanMissingPrefix(t *testing.T) {
	s := newTestStorage(t)

	removed, err := s.DeleteOlderThan(context.Background(), "reports", time.Now())
	require.NoError(t, err)
	assert.Empty(t, removed)
}
