package domain

import "time"

// TimeEntryState is derived from whether the entry has an end time.
type TimeEntryState string

const (
	EntryRunning TimeEntryState = "running"
	EntryStopped TimeEntryState = "stopped"
)

// TimeEntry is one timed interval of work against a Task. It is created
// running and stopped exactly once.
type TimeEntry struct {
	DurationSeconds *int64
	EndTime         *time.Time
	ID              int64
	StartTime       time.Time
	TaskID          int64
}

// State reports whether the entry is still running.
func (e TimeEntry) State() TimeEntryState {
	if e.EndTime == nil {
		return EntryRunning
	}
	return EntryStopped
}

// Stop ends a running entry at now and records its duration in whole
// seconds. Stopping an already stopped entry fails and changes nothing.
func (e *TimeEntry) Stop(now time.Time) error {
	if e.EndTime != nil {
		return ErrEntryAlreadyStopped
	}
	if now.Before(e.StartTime) {
		now = e.StartTime
	}
	seconds := int64(now.Sub(e.StartTime).Seconds())
	e.EndTime = &now
	e.DurationSeconds = &seconds
	return nil
}

// Seconds returns the recorded duration, zero while running.
func (e TimeEntry) Seconds() int64 {
	if e.DurationSeconds == nil {
		return 0
	}
	return *e.DurationSeconds
}
