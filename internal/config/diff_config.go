package config

// DiffConfig defines configuration for diff generation.
type DiffConfig struct {
	// MaxDiffFileSizeMB caps the content size eligible for a detailed diff.
	// Larger transitions are still recorded, with a placeholder diff string.
	MaxDiffFileSizeMB int `json:"max_diff_file_size_mb,omitempty" yaml:"max_diff_file_size_mb,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		MaxDiffFileSizeMB: DefaultMaxDiffFileSizeMB,
	}
}
