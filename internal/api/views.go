package api

import (
	"time"

	"tempo/internal/domain"
)

// TaskTimeLayout formats task start and end times
const TaskTimeLayout = "2006-01-02 15:04"

// ActivityView is the JSON shape of an activity. Hours are rounded to
// two decimals.
type ActivityView struct {
	ActivityID       int64    `json:"activity_id"`
	Name             string   `json:"name"`
	OriginalEstimate float64  `json:"original_estimate"`
	RemainingHours   float64  `json:"remaining_hours"`
	CompletedHours   float64  `json:"completed_hours"`
	Finalized        bool     `json:"finalized"`
	PricePerHour     *float64 `json:"price_per_hour"`
	MoneyReceived    *bool    `json:"money_received"`
}

// TaskView is the JSON shape of a task; duration is in hours
type TaskView struct {
	TaskID     int64   `json:"task_id"`
	ActivityID int64   `json:"activity_id"`
	Name       string  `json:"name"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	Duration   float64 `json:"duration"`
	Closed     bool    `json:"closed"`
}

// TimeEntryView is the JSON shape of a time entry; duration is in seconds
type TimeEntryView struct {
	TimeEntryID int64      `json:"time_entry_id"`
	TaskID      int64      `json:"task_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Duration    *int64     `json:"duration"`
}

// NewActivityView renders an activity
func NewActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:       a.ID,
		Name:             a.Name,
		OriginalEstimate: a.OriginalEstimate,
		RemainingHours:   domain.RoundHours(a.RemainingHours),
		CompletedHours:   domain.RoundHours(a.CompletedHours),
		Finalized:        a.Finalized,
		PricePerHour:     a.PricePerHour,
		MoneyReceived:    a.MoneyReceived,
	}
}

// NewTaskView renders a task
func NewTaskView(t domain.Task) TaskView {
	return TaskView{
		TaskID:     t.ID,
		ActivityID: t.ActivityID,
		Name:       t.Name,
		StartTime:  formatTaskTime(t.StartTime),
		EndTime:    formatTaskTime(t.EndTime),
		Duration:   domain.RoundHours(t.DurationHours()),
		Closed:     t.Closed,
	}
}

// NewTimeEntryView renders a time entry
func NewTimeEntryView(e domain.TimeEntry) TimeEntryView {
	return TimeEntryView{
		TimeEntryID: e.ID,
		TaskID:      e.TaskID,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Duration:    e.DurationSeconds,
	}
}

func formatTaskTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(TaskTimeLayout)
	return &s
}

func ActivityViews(activities []domain.Activity) []ActivityView {
	views := make([]ActivityView, len(activities))
	for i, a := range activities {
		views[i] = NewActivityView(a)
	}
	return views
}

func TaskViews(tasks []domain.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = NewTaskView(t)
	}
	return views
}

func TimeEntryViews(entries []domain.TimeEntry) []TimeEntryView {
	views := make([]TimeEntryView, len(entries))
	for i, e := range entries {
		views[i] = NewTimeEntryView(e)
	}
	return views
}
