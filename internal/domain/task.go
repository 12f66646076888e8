package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is a subdivision of an Activity. DurationMinutes is derived from
// the task's stopped time entries.
type Task struct {
	ActivityID      int64
	Closed          bool
	DurationMinutes int64
	EndTime         *time.Time
	ID              int64
	Name            string
	StartTime       *time.Time
}

// NewTask returns an open task under the given activity.
func NewTask(activityID int64, name string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if activityID <= 0 {
		return Task{}, fmt.Errorf("%w: activity_id is required", ErrInvalidInput)
	}
	return Task{ActivityID: activityID, Name: name}, nil
}

// DurationHours is the task duration expressed in hours.
func (t Task) DurationHours() float64 {
	return MinutesToHours(t.DurationMinutes)
}

// Close marks the task closed at now. Closing again moves EndTime.
func (t *Task) Close(now time.Time) {
	t.Closed = true
	t.EndTime = &now
}
