package jtl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const (
	watchWait = 5 * time.Second
	watchTick = 20 * time.Millisecond
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func TestCacheWatcher_InvalidatesChangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "page.html"), "v1 {{x}}")

	store, err := NewFilesystemAssetStore(root, ".html")
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	engine := MustNew(WithAssetStore(store), WithCacheWatcher(true), WithLogger(zap.New(core)))
	defer engine.Close()

	ctx := context.Background()
	r1, err := engine.Render(ctx, NewTemplate("page", map[string]any{"x": 1}))
	require.NoError(t, err)
	assert.Equal(t, "v1 1", r1.Rendered())
	assert.Equal(t, 1, logs.FilterMessage(LogMsgWatcherStarted).Len())

	writeFile(t, filepath.Join(root, "page.html"), "v2 {{x}}")

	require.Eventually(t, func() bool {
		_, ok := engine.Cache().Get("page")
		return !ok
	}, watchWait, watchTick)

	r2, err := engine.Render(ctx, NewTemplate("page", map[string]any{"x": 1}))
	require.NoError(t, err)
	assert.Equal(t, "v2 1", r2.Rendered())
}

func TestCacheWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemAssetStore(root, "")
	require.NoError(t, err)

	cache := NewTemplateCache()
	watcher, err := NewCacheWatcher(store, cache, nil)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	// Give the watcher time to pick up the new directory.
	time.Sleep(200 * time.Millisecond)

	cache.Put("sub/a.txt", newTestResult("sub/a.txt", "old"))
	writeFile(t, filepath.Join(root, "sub", "a.txt"), "new")

	require.Eventually(t, func() bool {
		_, ok := cache.Get("sub/a.txt")
		return !ok
	}, watchWait, watchTick)
}

func TestCacheWatcher_IgnoresUnrelatedEntries(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemAssetStore(root, "")
	require.NoError(t, err)

	cache := NewTemplateCache()
	cache.Put("kept", newTestResult("kept", "x"))

	watcher, err := NewCacheWatcher(store, cache, nil)
	require.NoError(t, err)

	cache.Put("other", newTestResult("other", "y"))
	writeFile(t, filepath.Join(root, "other"), "y")
	require.Eventually(t, func() bool {
		_, ok := cache.Get("other")
		return !ok
	}, watchWait, watchTick)

	_, ok := cache.Get("kept")
	assert.True(t, ok)

	require.NoError(t, watcher.Close())
	assert.NoError(t, watcher.Close())
}

func TestCacheWatcher_Disabled(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystemAssetStore(root, "")
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)

	// Without a cache there is nothing to invalidate.
	engine := MustNew(WithAssetStore(store), WithCache(false), WithCacheWatcher(true), WithLogger(zap.New(core)))
	require.NoError(t, engine.Close())
	assert.Equal(t, 0, logs.FilterMessage(LogMsgWatcherStarted).Len())

	// Only filesystem stores are watched.
	engine = MustNew(WithAssetStore(NewMemoryAssetStore(nil)), WithCacheWatcher(true), WithLogger(zap.New(core)))
	require.NoError(t, engine.Close())
	assert.Equal(t, 0, logs.FilterMessage(LogMsgWatcherStarted).Len())
}
