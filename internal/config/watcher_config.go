package config

// WatcherConfig defines configuration for the file watcher and debouncer.
type WatcherConfig struct {
	// DebounceMs is the quiet window after a save before events are flushed
	// as one batch.
	DebounceMs int `json:"debounce_ms,omitempty" yaml:"debounce_ms,omitempty" validate:"omitempty,min=1"`
	// SuppressionMs is the lifetime of a suppression token set before a
	// core-initiated write. An expired token no longer suppresses recording.
	SuppressionMs int `json:"suppression_ms,omitempty" yaml:"suppression_ms,omitempty" validate:"omitempty,min=1"`
	// MaxFileSizeMB caps the size of files whose content is snapshotted.
	MaxFileSizeMB int      `json:"max_file_size_mb,omitempty" yaml:"max_file_size_mb,omitempty" validate:"omitempty,min=1"`
	Extensions    []string `json:"extensions,omitempty" yaml:"extensions,omitempty" validate:"dive,required"`
	IgnoreDirs    []string `json:"ignore_dirs,omitempty" yaml:"ignore_dirs,omitempty" validate:"dive,required"`
}

// NewDefaultWatcherConfig creates default watcher configuration
func NewDefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		DebounceMs:    DefaultWatcherDebounceMs,
		SuppressionMs: DefaultWatcherSuppressionMs,
		MaxFileSizeMB: DefaultWatcherMaxFileSizeMB,
		Extensions:    DefaultWatcherExtensions,
		IgnoreDirs:    DefaultWatcherIgnoreDirs,
	}
}
