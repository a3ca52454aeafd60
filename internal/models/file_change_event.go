package models

import "time"

// FileChangeEvent is the (path, old content, new content) triple handed over
// by the file watcher after debouncing. BatchID groups events that settled in
// the same debounce window.
type FileChangeEvent struct {
	FilePath   string
	OldContent string
	NewContent string
	BatchID    *string
	DetectedAt time.Time
}
