package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var watchLog = logger.New("cli:watch")

const defaultWatchDebounce = 300 * time.Millisecond

// watchAndSynth runs fn once, then again after every burst of changes to
// one of paths. The directories holding paths are watched. Bursts closer
// together than debounce collapse into a single run. It returns when ctx is
// done or fn fails.
func watchAndSynth(ctx context.Context, paths []string, debounce time.Duration, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	paths = cleanPaths(paths)
	for _, dir := range watchedDirs(paths) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	watchLog.Printf("Watching for changes to %v", paths)

	if err := fn(); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			watchLog.Print("Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantEvent(event, paths) {
				continue
			}
			watchLog.Printf("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			if err := fn(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		}
	}
}

// isRelevantEvent reports whether event changes the content of one of the
// watched files. Chmod-only events are ignored.
func isRelevantEvent(event fsnotify.Event, paths []string) bool {
	if !slices.Contains(paths, filepath.Clean(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func cleanPaths(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	for _, p := range paths {
		cleaned = append(cleaned, filepath.Clean(p))
	}
	return cleaned
}

// watchedDirs returns the parent directories of paths, without duplicates,
// in first-seen order.
func watchedDirs(paths []string) []string {
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
