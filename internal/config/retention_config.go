package config

// RetentionConfig defines the pruning policy applied by the retention
// scheduler. A zero MaxAgeDays or MaxRecords disables that policy.
type RetentionConfig struct {
	IntervalMinutes int `json:"interval_minutes,omitempty" yaml:"interval_minutes,omitempty" validate:"omitempty,min=1"`
	MaxAgeDays      int `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty" validate:"omitempty,min=0"`
	MaxRecords      int `json:"max_records,omitempty" yaml:"max_records,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultRetentionConfig creates default retention configuration
func NewDefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		IntervalMinutes: DefaultRetentionIntervalMinutes,
		MaxAgeDays:      DefaultRetentionMaxAgeDays,
		MaxRecords:      DefaultRetentionMaxRecords,
	}
}
