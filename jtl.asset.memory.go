package jtl

import (
	"context"
	"sort"
	"sync"
)

// MemoryAssetStore keeps template text in memory.
// It is primarily intended for tests, programmatic registration and the CLI.
type MemoryAssetStore struct {
	mu     sync.RWMutex
	assets map[string]string
	closed bool
}

// MemoryAssetDriver is the driver for creating MemoryAssetStore instances.
type MemoryAssetDriver struct{}

func init() {
	RegisterAssetDriver(AssetDriverNameMemory, &MemoryAssetDriver{})
}

// Open creates a new MemoryAssetStore. The source is ignored.
func (d *MemoryAssetDriver) Open(source string) (AssetStore, error) {
	return NewMemoryAssetStore(nil), nil
}

// NewMemoryAssetStore creates a store pre-loaded with a copy of assets.
func NewMemoryAssetStore(assets map[string]string) *MemoryAssetStore {
	s := &MemoryAssetStore{assets: make(map[string]string, len(assets))}
	for location, content := range assets {
		s.assets[location] = content
	}
	return s
}

// Build returns the asset stored at location.
func (s *MemoryAssetStore) Build(ctx context.Context, location string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	content, ok := s.assets[location]
	if !ok {
		return nil, NewAssetNotFoundError(location)
	}
	return NewStringAsset(location, content), nil
}

// Put creates or replaces the asset at location.
func (s *MemoryAssetStore) Put(ctx context.Context, location, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if location == "" {
		return NewInvalidLocationError(location)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}
	s.assets[location] = content
	return nil
}

// Delete removes the asset at location.
func (s *MemoryAssetStore) Delete(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewAssetStoreClosedError()
	}
	if _, ok := s.assets[location]; !ok {
		return NewAssetNotFoundError(location)
	}
	delete(s.assets, location)
	return nil
}

// Locations lists every stored location, sorted.
func (s *MemoryAssetStore) Locations(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewAssetStoreClosedError()
	}

	locations := make([]string, 0, len(s.assets))
	for location := range s.assets {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	return locations, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryAssetStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.assets = nil
	return nil
}
