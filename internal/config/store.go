package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store hands out the current settings to concurrent readers and applies
// live reloads from the watcher.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// NewStore creates a store seeded with the given settings.
func NewStore(path string, settings Settings) *Store {
	return &Store{path: path, settings: settings}
}

// Current returns a copy of the active settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// reload re-reads the settings file, keeping the old values on error.
func (s *Store) reload() error {
	settings, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// Watch re-reads the settings file whenever it changes, until ctx is
// cancelled. An options page or installer may rewrite the file while the
// host is running; failures here never disturb the protocol loop.
func (s *Store) Watch(ctx context.Context, log *slog.Logger) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: editors and installers typically replace the
	// file, which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(s.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.reload(); err != nil {
					log.Error("config reload failed", "err", err)
					continue
				}
				log.Info("config reloaded", "path", s.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("config watch error", "err", err)
			}
		}
	}()
	return nil
}
