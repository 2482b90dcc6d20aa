package jtl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemAssetStore(t *testing.T) {
	store, err := NewFilesystemAssetStore(t.TempDir(), "")
	require.NoError(t, err)
	runAssetStoreContract(t, store)
}

func TestFilesystemAssetStore_Extension(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystemAssetStore(root, "html")
	require.NoError(t, err)
	assert.Equal(t, ".html", store.Extension())
	assert.Equal(t, root, store.Root())

	require.NoError(t, store.Put(ctx, "pages/home", "<p>home</p>"))
	data, err := os.ReadFile(filepath.Join(root, "pages", "home.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>home</p>", string(data))

	for _, location := range []string{"pages/home", "pages/home.html"} {
		asset, err := store.Build(ctx, location)
		require.NoError(t, err, location)
		fileAsset, ok := asset.(*FileAsset)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "pages", "home.html"), fileAsset.Filename())
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), FilesystemFilePermissions))
	locations, err := store.Locations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pages/home"}, locations)

	assert.Equal(t, []string{"pages/home.html", "pages/home"}, store.LocationsFor(filepath.Join(root, "pages", "home.html")))
	assert.Equal(t, []string{"notes.txt"}, store.LocationsFor(filepath.Join(root, "notes.txt")))
	assert.Nil(t, store.LocationsFor(filepath.Join(filepath.Dir(root), "elsewhere.html")))
}

func TestFilesystemAssetStore_RejectsEscapes(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemAssetStore(t.TempDir(), "")
	require.NoError(t, err)

	for _, location := range []string{"", "../secret", "a/../../b", "/etc/passwd", `a\b`, ".", "a/..", "x\x00y"} {
		t.Run(location, func(t *testing.T) {
			_, err := store.Build(ctx, location)
			require.Error(t, err)
			assert.Contains(t, err.Error(), ErrMsgInvalidLocation)
			assert.Error(t, store.Put(ctx, location, "x"))
		})
	}
}

func TestFilesystemAssetStore_DirectoryIsNotAnAsset(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), FilesystemDirPermissions))
	store, err := NewFilesystemAssetStore(root, "")
	require.NoError(t, err)

	_, err = store.Build(context.Background(), "dir")
	assert.True(t, IsAssetNotFound(err))
}

func TestFilesystemAssetStore_LazyContent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystemAssetStore(root, "")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "a", "one"))

	asset, err := store.Build(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("two"), FilesystemFilePermissions))

	content, err := asset.Content(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", content)

	require.NoError(t, os.Remove(filepath.Join(root, "a")))
	_, err = asset.Content(ctx)
	assert.True(t, IsAssetNotFound(err))
}

func TestFilesystemAssetStore_EmptyRoot(t *testing.T) {
	_, err := NewFilesystemAssetStore("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidAssetRoot)
}

func TestFilesystemAssetDriver(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")
	store, err := OpenAssetProvider(AssetDriverNameFilesystem, root)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
