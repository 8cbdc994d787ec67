package interfaces

import "time"

// ScheduleStatus describes the state of the scheduled ingestion trigger
type ScheduleStatus struct {
	Enabled  bool       `json:"enabled"`
	Schedule string     `json:"schedule"`
	LastRun  *time.Time `json:"last_run,omitempty"`
	NextRun  *time.Time `json:"next_run,omitempty"`
}

// SchedulerService manages the cron-based ingestion schedule
type SchedulerService interface {
	// Start begins the scheduler using the configured cron expression
	Start() error

	// Stop halts the scheduler
	Stop() error

	// Status returns the current schedule state
	Status() ScheduleStatus
}
