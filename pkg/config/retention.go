package config

import "time"

// RetentionConfig holds data retention and cleanup settings. They are
// loaded and validated; no code in this module purges rows or runs a
// cleanup loop from them.
type RetentionConfig struct {
	// RecordRetentionDays is how many days to keep GenerationRecord audit
	// rows before they are purged.
	RecordRetentionDays int `yaml:"record_retention_days"`

	// JobRetentionDays is how many days to keep completed/failed
	// GenerationJob rows before they are purged.
	JobRetentionDays int `yaml:"job_retention_days"`

	// CleanupInterval is how often the cleanup loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		RecordRetentionDays: 365,
		JobRetentionDays:    30,
		CleanupInterval:     12 * time.Hour,
	}
}
