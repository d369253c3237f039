package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ktbridge/internal/crawler"
)

// WatchDebounce is how long Watch waits for a burst of writes to settle.
var WatchDebounce = 150 * time.Millisecond

// Watch re-converts dumps under root whenever they or their sources change,
// until ctx is done. Every result is passed to onResult.
func (p *Pipeline) Watch(ctx context.Context, root string, c *crawler.Crawler, onResult func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := watchTree(w, root, c); err != nil {
		return err
	}

	pending := make(map[string]bool)
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name, c); err != nil {
						p.logger.Warn("failed to watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if crawler.IsDump(ev.Name) || strings.HasSuffix(ev.Name, crawler.SourceSuffix) {
				pending[ev.Name] = true
				flush = time.After(WatchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watch error", zap.Error(err))
		case <-flush:
			flush = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)
			for _, u := range c.ForSources(paths) {
				onResult(p.Convert(ctx, u))
			}
		}
	}
}

func watchTree(w *fsnotify.Watcher, root string, c *crawler.Crawler) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && c.Skips(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
