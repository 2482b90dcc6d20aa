package jtl

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CacheWatcher drops cache entries when the files behind them change.
// It watches every directory below a filesystem store's root; a write, create,
// remove or rename of a file removes the entries keyed by the file's locations
// (with and without the store's default extension).
type CacheWatcher struct {
	store   *FilesystemAssetStore
	cache   *TemplateCache
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewCacheWatcher starts watching store's root for changes that invalidate cache.
func NewCacheWatcher(store *FilesystemAssetStore, cache *TemplateCache, logger *zap.Logger) (*CacheWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, NewWatcherError(ErrMsgWatcherCreate, store.Root(), err)
	}

	w := &CacheWatcher{
		store:   store,
		cache:   cache,
		logger:  logger,
		watcher: watcher,
		done:    make(chan struct{}),
	}

	if err := w.addTree(store.Root()); err != nil {
		watcher.Close()
		return nil, NewWatcherError(ErrMsgWatcherAdd, store.Root(), err)
	}

	w.wg.Add(1)
	go w.run()

	logger.Debug(LogMsgWatcherStarted, zap.String(LogFieldRoot, store.Root()))
	return w, nil
}

// addTree watches dir and every directory below it.
func (w *CacheWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(p)
	})
}

func (w *CacheWatcher) run() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(LogMsgWatcherError, zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *CacheWatcher) handle(ev fsnotify.Event) {
	const invalidating = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	if ev.Op&invalidating == 0 {
		return
	}

	w.logger.Debug(LogMsgWatcherEvent,
		zap.String(LogFieldFile, ev.Name),
		zap.String(LogFieldEvent, ev.Op.String()))

	// New directories need their own watch.
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.logger.Warn(LogMsgWatcherAddFailed,
					zap.String(LogFieldFile, ev.Name),
					zap.Error(err))
			}
			return
		}
	}

	for _, location := range w.store.LocationsFor(ev.Name) {
		if w.cache.Remove(location) {
			w.logger.Debug(LogMsgCacheRemove, zap.String(LogFieldLocation, location))
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (w *CacheWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		w.logger.Debug(LogMsgWatcherStopped, zap.String(LogFieldRoot, w.store.Root()))
	})
	return err
}
