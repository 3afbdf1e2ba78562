package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/securescan/securescan/pkg/logger"
)

// Options configures the drop folder
type Options struct {
	Dir   string        // Directory to watch
	Delay time.Duration // Quiet period before a new file counts as dropped
}

// DefaultOptions returns default watch options
func DefaultOptions(dir string) Options {
	return Options{
		Dir:   dir,
		Delay: 300 * time.Millisecond,
	}
}

// DropWatcher reports files that appear in a directory. Only names and
// metadata are ever used; files are not opened.
type DropWatcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	drops   chan string
}

// New creates a drop folder watcher
func New(opts Options) (*DropWatcher, error) {
	if opts.Delay <= 0 {
		opts.Delay = DefaultOptions(opts.Dir).Delay
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("drop folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drop folder %s is not a directory", opts.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(opts.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", opts.Dir, err)
	}

	return &DropWatcher{
		opts:    opts,
		watcher: watcher,
		drops:   make(chan string, 1),
	}, nil
}

// Drops delivers the path of each dropped file. It is closed when Start returns.
func (w *DropWatcher) Drops() <-chan string {
	return w.drops
}

// Start runs the event loop until ctx is done
func (w *DropWatcher) Start(ctx context.Context) error {
	defer close(w.drops)

	debounce := time.NewTimer(w.opts.Delay)
	debounce.Stop()
	var latest string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !shouldWatch(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				latest = event.Name
				debounce.Reset(w.opts.Delay)
			}

		case <-debounce.C:
			if latest == "" {
				continue
			}
			path := latest
			latest = ""

			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			logger.Debug("file dropped: %s", path)

			// keep only the newest drop if nobody is reading
			select {
			case <-w.drops:
			default:
			}
			w.drops <- path

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// shouldWatch skips hidden files and editor temp files
func shouldWatch(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	for _, suffix := range []string{".tmp", ".part", ".crdownload", ".swp"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// Close cleans up the watcher
func (w *DropWatcher) Close() error {
	return w.watcher.Close()
}
