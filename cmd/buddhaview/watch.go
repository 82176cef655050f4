package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/lukaszgryglicki/buddhabrot/internal/buddhabrot"
)

// watchConfig reloads the config at path whenever it is written and hands the
// result to out, replacing a pending one. Invalid configs are logged and skipped.
// The parent directory is watched since editors often replace the file.
func watchConfig(ctx context.Context, path string, out chan *buddhabrot.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	want := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != want || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := buddhabrot.LoadConfig(path)
			if err != nil {
				buddhabrot.Logger().Warn("failed to reload config", "err", err)
				continue
			}
			select {
			case <-out:
			default:
			}
			out <- cfg
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			buddhabrot.Logger().Warn("config watcher error", "err", err)
		}
	}
}
