package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"filetrail/internal/config"
	"filetrail/internal/models"
)

// Watcher observes a workspace root for file saves and turns them into
// debounced FileChangeEvents. It keeps a last-seen content snapshot per path
// so every event carries the (old, new) content pair the history core needs,
// and honors suppression tokens for core-initiated writes.
type Watcher struct {
	root       string
	cfg        config.WatcherConfig
	logger     zerolog.Logger
	fsw        *fsnotify.Watcher
	debouncer  *Debouncer
	suppressor *Suppressor
	events     chan models.FileChangeEvent

	mu        sync.Mutex
	snapshots map[string]string

	wg sync.WaitGroup
}

// NewWatcher creates a watcher for the workspace rooted at root. Start must
// be called before events flow.
func NewWatcher(root string, cfg config.WatcherConfig, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	events := make(chan models.FileChangeEvent, 64)
	componentLogger := logger.With().Str("component", "Watcher").Logger()

	return &Watcher{
		root:       root,
		cfg:        cfg,
		logger:     componentLogger,
		fsw:        fsw,
		debouncer:  NewDebouncer(time.Duration(cfg.DebounceMs)*time.Millisecond, events, logger),
		suppressor: NewSuppressor(time.Duration(cfg.SuppressionMs) * time.Millisecond),
		events:     events,
		snapshots:  make(map[string]string),
	}, nil
}

// Events returns the channel on which debounced change events are delivered.
func (w *Watcher) Events() <-chan models.FileChangeEvent {
	return w.events
}

// Suppressor exposes the suppression token map so the tracker can flag
// core-initiated writes before performing them.
func (w *Watcher) Suppressor() *Suppressor {
	return w.suppressor
}

// Start walks the root to register directories and prime content snapshots,
// then processes file-system events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.walkRoot(); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.eventLoop(ctx)

	w.logger.Info().Str("root", w.root).Msg("File watcher started")
	return nil
}

// Stop flushes pending changes and releases the underlying watcher. The
// events channel is closed once the event loop drains.
func (w *Watcher) Stop() {
	_ = w.fsw.Close()
	w.wg.Wait()
	w.debouncer.Stop()
	close(w.events)
	w.logger.Info().Msg("File watcher stopped")
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDirectory(event.Name)
			return
		}
	}

	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return
	}
	if !w.shouldTrack(event.Name) {
		return
	}

	newContent, ok := w.readContent(event.Name)
	if !ok {
		return
	}

	oldContent := w.swapSnapshot(event.Name, newContent)

	if w.suppressor.ShouldSuppress(event.Name) {
		w.logger.Debug().Str("file_path", event.Name).Msg("Suppressed core-initiated write")
		return
	}
	if oldContent == newContent {
		return
	}

	w.debouncer.Add(w.relPath(event.Name), oldContent, newContent)
}

// walkRoot registers every non-ignored directory and primes the snapshot
// cache with the current content of tracked files.
func (w *Watcher) walkRoot() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if w.isIgnoredDir(d.Name()) && path != w.root {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		if w.shouldTrack(path) {
			if content, ok := w.readContent(path); ok {
				w.swapSnapshot(path, content)
			}
		}
		return nil
	})
}

func (w *Watcher) addDirectory(path string) {
	if w.isIgnoredDir(filepath.Base(path)) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn().Err(err).Str("directory", path).Msg("Failed to watch new directory")
	}
}

// shouldTrack applies the extension allow-list and directory ignore-list.
func (w *Watcher) shouldTrack(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	tracked := false
	for _, allowed := range w.cfg.Extensions {
		if ext == allowed {
			tracked = true
			break
		}
	}
	if !tracked {
		return false
	}

	rel := w.relPath(path)
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if w.isIgnoredDir(part) {
			return false
		}
	}
	return true
}

func (w *Watcher) isIgnoredDir(name string) bool {
	for _, ignored := range w.cfg.IgnoreDirs {
		if name == ignored {
			return true
		}
	}
	return false
}

// readContent reads a file honoring the size cap. Oversized or unreadable
// files are skipped.
func (w *Watcher) readContent(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if w.cfg.MaxFileSizeMB > 0 && info.Size() > int64(w.cfg.MaxFileSizeMB)*1024*1024 {
		w.logger.Debug().Str("file_path", path).Int64("size", info.Size()).Msg("Skipping oversized file")
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn().Err(err).Str("file_path", path).Msg("Failed to read changed file")
		return "", false
	}
	return string(data), true
}

// swapSnapshot stores the new content for path and returns the previous one.
func (w *Watcher) swapSnapshot(path, newContent string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	old := w.snapshots[path]
	w.snapshots[path] = newContent
	return old
}

// SetSnapshot records content as the last-seen state of path. The tracker
// calls this after a core-initiated write so the next genuine edit diffs
// against the restored content.
func (w *Watcher) SetSnapshot(path, content string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snapshots[path] = content
}

// relPath converts an absolute path into a workspace-relative one, the form
// stored on change records.
func (w *Watcher) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
