package jtl

import (
	"context"
	"sort"
	"sync"
)

// Asset is a loadable piece of template text.
type Asset interface {
	// Location identifies the asset within its provider.
	Location() string
	// Content returns the template text.
	Content(ctx context.Context) (string, error)
}

// AssetProvider resolves locations to assets. Build returns an error satisfying
// IsAssetNotFound when nothing exists at location.
type AssetProvider interface {
	Build(ctx context.Context, location string) (Asset, error)
}

// AssetStore is an AssetProvider that also manages its assets.
// Implementations must be safe for concurrent use.
type AssetStore interface {
	AssetProvider

	// Put creates or replaces the asset at location.
	Put(ctx context.Context, location, content string) error

	// Delete removes the asset at location.
	// Returns an IsAssetNotFound error if it doesn't exist.
	Delete(ctx context.Context, location string) error

	// Locations lists every stored location, sorted.
	Locations(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// AssetDriver is a factory for asset stores. Drivers register themselves during init().
type AssetDriver interface {
	// Open creates a store from a driver-specific source (directory, DSN, ...).
	Open(source string) (AssetStore, error)
}

// StringAsset is an in-memory asset.
type StringAsset struct {
	location string
	content  string
}

// NewStringAsset creates an asset holding content.
func NewStringAsset(location, content string) StringAsset {
	return StringAsset{location: location, content: content}
}

// Location returns the asset location.
func (a StringAsset) Location() string {
	return a.location
}

// Content returns the asset text.
func (a StringAsset) Content(ctx context.Context) (string, error) {
	return a.content, nil
}

// Asset driver registry
var (
	assetDriversMu sync.RWMutex
	assetDrivers   = make(map[string]AssetDriver)
)

// RegisterAssetDriver registers an asset driver by name.
// Panics if driver is nil or a driver with the same name is already registered.
func RegisterAssetDriver(name string, driver AssetDriver) {
	assetDriversMu.Lock()
	defer assetDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilAssetDriver)
	}
	if _, exists := assetDrivers[name]; exists {
		panic(ErrMsgAssetDriverExists + ": " + name)
	}
	assetDrivers[name] = driver
}

// OpenAssetProvider opens an asset store using the named driver.
//
// Example:
//
//	store, err := jtl.OpenAssetProvider("memory", "")
//	store, err := jtl.OpenAssetProvider("filesystem", "/srv/templates")
//	store, err := jtl.OpenAssetProvider("sqlite", "templates.db")
func OpenAssetProvider(driverName, source string) (AssetStore, error) {
	assetDriversMu.RLock()
	driver, ok := assetDrivers[driverName]
	assetDriversMu.RUnlock()

	if !ok {
		return nil, NewAssetDriverNotFoundError(driverName)
	}
	return driver.Open(source)
}

// ListAssetDrivers returns the names of all registered drivers, sorted.
func ListAssetDrivers() []string {
	assetDriversMu.RLock()
	defer assetDriversMu.RUnlock()

	names := make([]string, 0, len(assetDrivers))
	for name := range assetDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
