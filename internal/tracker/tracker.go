package tracker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"filetrail/internal/history"
	"filetrail/internal/watcher"
)

// Tracker wires the watcher to the history controller and executes the disk
// side of rollback and restore. It owns no history logic: recording decisions
// belong to the controller, debouncing and suppression to the watcher.
type Tracker struct {
	root       string
	watcher    *watcher.Watcher
	controller *history.Controller
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

// NewTracker creates a tracker for the workspace rooted at root.
func NewTracker(root string, w *watcher.Watcher, controller *history.Controller, logger zerolog.Logger) *Tracker {
	return &Tracker{
		root:       root,
		watcher:    w,
		controller: controller,
		logger:     logger.With().Str("component", "Tracker").Logger(),
	}
}

// Run starts the watcher and records debounced change events until ctx is
// cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for event := range t.watcher.Events() {
			if _, err := t.controller.RecordChange(event); err != nil {
				t.logger.Error().Err(err).Str("file_path", event.FilePath).Msg("Failed to record change")
			}
		}
	}()

	<-ctx.Done()
	t.watcher.Stop()
	t.wg.Wait()
	return nil
}

// Rollback commits a rollback to the target record and writes the restored
// content to disk. The watcher is suppressed around the write so the
// rollback is not re-recorded as an ordinary edit.
func (t *Tracker) Rollback(targetID int64) error {
	preview, err := t.controller.PreviewRollback(targetID)
	if err != nil {
		return err
	}

	absPath := t.absPath(preview.Target.FilePath)
	currentContent, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read current content of %s: %w", absPath, err)
	}

	content, err := t.controller.CommitRollback(targetID, string(currentContent))
	if err != nil {
		return err
	}

	return t.writeSuppressed(absPath, content)
}

// BatchRollback rolls back multiple targets in one action, writing each
// successful file's restored content to disk. One file's failure does not
// block the others; the per-target results are returned for presentation.
func (t *Tracker) BatchRollback(targetIDs []int64) ([]history.BatchRollbackResult, error) {
	// Content is read for every target whose record resolves, even ones that
	// will fail validation, so the controller reports the true error kind.
	currentContentByFile := make(map[string]string)
	for _, targetID := range targetIDs {
		target, err := t.controller.GetRecord(targetID)
		if err != nil {
			continue // surfaced per-target by the controller below
		}
		absPath := t.absPath(target.FilePath)
		data, err := os.ReadFile(absPath)
		if err != nil {
			t.logger.Warn().Err(err).Str("file_path", absPath).Msg("Failed to read current content for batch rollback")
			continue
		}
		currentContentByFile[target.FilePath] = string(data)
	}

	results := t.controller.BatchRollback(targetIDs, currentContentByFile)
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		if err := t.writeSuppressed(t.absPath(result.FilePath), result.Content); err != nil {
			t.logger.Error().Err(err).Str("file_path", result.FilePath).Msg("Failed to write rolled-back content")
		}
	}
	return results, nil
}

// Restore undoes the most recent rollback for a file and writes the
// pre-rollback content back to disk.
func (t *Tracker) Restore(rollbackID int64) error {
	result, err := t.controller.Restore(rollbackID)
	if err != nil {
		return err
	}
	return t.writeSuppressed(t.absPath(result.FilePath), result.Content)
}

// writeSuppressed writes content to absPath with the watcher suppressed, then
// refreshes the watcher's snapshot so the next genuine edit diffs against the
// written content.
func (t *Tracker) writeSuppressed(absPath, content string) error {
	suppressor := t.watcher.Suppressor()
	suppressor.Suppress(absPath)
	defer suppressor.Clear(absPath)

	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", absPath, err)
	}
	t.watcher.SetSnapshot(absPath, content)
	return nil
}

func (t *Tracker) absPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(t.root, relPath)
}
