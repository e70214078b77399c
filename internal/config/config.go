package config

const (
	DefaultTimeZone = "America/Denver"

	// Fixed page size for server-side range reads against the row tables.
	BatchSize = 1000

	// Refresh Job Constants
	DefaultSummarySchedule = "*/15 * * * *" // refresh rollups every 15 minutes
	DefaultStagingSchedule = "0 3 * * *"    // sweep abandoned staging rows nightly
	StagingRetentionHours  = 24
)
