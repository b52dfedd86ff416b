package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 250 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes the new
// configuration to onChange. Reload failures go to onError and the previous
// configuration stays in effect. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file, so atomic
// rename-on-save keeps working.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	cleanPath := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(cleanPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(cleanPath), err)
	}

	if onError == nil {
		onError = func(error) {}
	}

	var (
		debounce *time.Timer
		fire     <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cleanPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("config watcher: %w", err))

		case <-fire:
			fire = nil
			cfg, err := Load(cleanPath)
			if err != nil {
				onError(err)
				continue
			}
			onChange(cfg)
		}
	}
}
