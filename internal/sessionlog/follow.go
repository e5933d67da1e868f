package sessionlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// followDebounce coalesces bursts of write events.
const followDebounce = 100 * time.Millisecond

// Follow streams entries appended to path after offset until ctx ends.
// The directory is watched rather than the file so rotations that recreate
// the file are picked up.
func Follow(ctx context.Context, path string, offset int64, fn func(Entry) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	drain := func() error {
		next, err := readFrom(abs, offset, fn)
		if err != nil {
			return err
		}
		offset = next
		return nil
	}
	// 先补齐 watcher 建立之前写入的内容
	if err := drain(); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				offset = 0
			}
			if debounce == nil {
				debounce = time.After(followDebounce)
			}
		case <-debounce:
			debounce = nil
			if err := drain(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

func readFrom(path string, offset int64, fn func(Entry) error) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return offset, nil
		}
		return offset, fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() < offset {
		log.WithField("path", path).Info("session log truncated, restarting from beginning")
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return offset, err
	}
	stats, err := Read(f, fn)
	return offset + stats.Offset, err
}
