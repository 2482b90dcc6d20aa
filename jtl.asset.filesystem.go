package jtl

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// FilesystemAssetStore serves templates from files below a root directory.
// Locations are slash-separated paths relative to the root. When an extension is
// configured it is appended to locations that do not already carry it, so
// "pages/home" and "pages/home.html" name the same file.
//
// Directory structure:
//
//	<root>/
//	  layout.html
//	  partials/
//	    header.html
type FilesystemAssetStore struct {
	mu        sync.RWMutex
	root      string
	extension string
	closed    bool
}

// FilesystemAssetDriver is the driver for creating FilesystemAssetStore instances.
type FilesystemAssetDriver struct{}

func init() {
	RegisterAssetDriver(AssetDriverNameFilesystem, &FilesystemAssetDriver{})
}

// Open creates a FilesystemAssetStore. The source is the root directory.
func (d *FilesystemAssetDriver) Open(source string) (AssetStore, error) {
	return NewFilesystemAssetStore(source, "")
}

// NewFilesystemAssetStore creates a store rooted at root, creating the directory
// if needed. extension (e.g. ".html") may be empty.
func NewFilesystemAssetStore(root, extension string) (*FilesystemAssetStore, error) {
	if root == "" {
		return nil, NewAssetError(ErrMsgInvalidAssetRoot, root, nil)
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewAssetError(ErrMsgCreateAssetRoot, root, err)
	}
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &FilesystemAssetStore{
		root:      root,
		extension: extension,
	}, nil
}

// Root returns the root directory.
func (s *FilesystemAssetStore) Root() string {
	return s.root
}

// Extension returns the default extension, or "" when none is configured.
func (s *FilesystemAssetStore) Extension() string {
	return s.extension
}

// Build returns a lazily read asset for location. The file must exist.
func (s *FilesystemAssetStore) Build(ctx context.Context, location string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filename, err := s.filename(location)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewAssetNotFoundError(location)
		}
		return nil, NewAssetError(ErrMsgAssetReadFailed, location, err)
	}
	if info.IsDir() {
		return nil, NewAssetNotFoundError(location)
	}
	return &FileAsset{location: location, filename: filename}, nil
}

// Put writes content to the file for location atomically, creating directories as needed.
func (s *FilesystemAssetStore) Put(ctx context.Context, location, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename, err := s.filename(location)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}

	if err := os.MkdirAll(filepath.Dir(filename), FilesystemDirPermissions); err != nil {
		return NewAssetError(ErrMsgAssetWriteFailed, location, err)
	}
	if err := atomic.WriteFile(filename, strings.NewReader(content)); err != nil {
		return NewAssetError(ErrMsgAssetWriteFailed, location, err)
	}
	return nil
}

// Delete removes the file for location.
func (s *FilesystemAssetStore) Delete(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filename, err := s.filename(location)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}

	if err := os.Remove(filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewAssetNotFoundError(location)
		}
		return NewAssetError(ErrMsgAssetDeleteFailed, location, err)
	}
	return nil
}

// Locations lists every file below the root as a location, sorted. With an extension
// configured, only files carrying it are listed and the extension is stripped.
func (s *FilesystemAssetStore) Locations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	var locations []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		location := filepath.ToSlash(rel)
		if s.extension != "" {
			if !strings.HasSuffix(location, s.extension) {
				return nil
			}
			location = strings.TrimSuffix(location, s.extension)
		}
		locations = append(locations, location)
		return nil
	})
	if err != nil {
		return nil, NewAssetError(ErrMsgAssetListFailed, s.root, err)
	}

	sort.Strings(locations)
	return locations, nil
}

// Close marks the store closed.
func (s *FilesystemAssetStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// LocationsFor returns the locations a file below the root is addressable by:
// its relative path and, when it carries the default extension, the path without it.
func (s *FilesystemAssetStore) LocationsFor(filename string) []string {
	rel, err := filepath.Rel(s.root, filename)
	if err != nil || rel == FilesystemParentDir || strings.HasPrefix(rel, FilesystemParentDir+string(filepath.Separator)) {
		return nil
	}
	location := filepath.ToSlash(rel)
	locations := []string{location}
	if s.extension != "" && strings.HasSuffix(location, s.extension) {
		locations = append(locations, strings.TrimSuffix(location, s.extension))
	}
	return locations
}

// filename maps a location to a path below the root, rejecting anything that would escape it.
func (s *FilesystemAssetStore) filename(location string) (string, error) {
	if err := validateAssetLocation(location); err != nil {
		return "", err
	}
	if s.extension != "" && !strings.HasSuffix(location, s.extension) {
		location += s.extension
	}
	return filepath.Join(s.root, filepath.FromSlash(location)), nil
}

func validateAssetLocation(location string) error {
	if location == "" || strings.ContainsAny(location, "\\\x00") {
		return NewInvalidLocationError(location)
	}
	if strings.HasPrefix(location, FilesystemPathSeparator) {
		return NewInvalidLocationError(location)
	}
	for _, segment := range strings.Split(location, FilesystemPathSeparator) {
		if segment == FilesystemParentDir {
			return NewInvalidLocationError(location)
		}
	}
	if path.Clean(location) == "." {
		return NewInvalidLocationError(location)
	}
	return nil
}

// FileAsset is a template file read on demand.
type FileAsset struct {
	location string
	filename string
}

// Location returns the asset location.
func (a *FileAsset) Location() string {
	return a.location
}

// Filename returns the path of the backing file.
func (a *FileAsset) Filename() string {
	return a.filename
}

// Content reads the file.
func (a *FileAsset) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(a.filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", NewAssetNotFoundError(a.location)
		}
		return "", NewAssetError(ErrMsgAssetReadFailed, a.location, err)
	}
	return string(data), nil
}
