package storage

import (
	"tempo/internal/domain"
)

// activityModelToDomain converts an ActivityModel (GORM) to domain.Activity
func activityModelToDomain(m ActivityModel) domain.Activity {
	return domain.Activity{
		CompletedHours:   m.CompletedHours,
		Finalized:        m.Finalized,
		ID:               m.ID,
		MoneyReceived:    m.MoneyReceived,
		Name:             m.Name,
		OriginalEstimate: m.OriginalEstimate,
		PricePerHour:     m.PricePerHour,
		RemainingHours:   m.RemainingHours,
	}
}

// domainToActivityModel converts a domain.Activity to ActivityModel (GORM)
func domainToActivityModel(a domain.Activity) ActivityModel {
	return ActivityModel{
		CompletedHours:   a.CompletedHours,
		Finalized:        a.Finalized,
		ID:               a.ID,
		MoneyReceived:    a.MoneyReceived,
		Name:             a.Name,
		OriginalEstimate: a.OriginalEstimate,
		PricePerHour:     a.PricePerHour,
		RemainingHours:   a.RemainingHours,
	}
}

// taskModelToDomain converts a TaskModel (GORM) to domain.Task
func taskModelToDomain(m TaskModel) domain.Task {
	return domain.Task{
		ActivityID:      m.ActivityID,
		Closed:          m.Closed,
		DurationMinutes: m.DurationMinutes,
		EndTime:         m.EndTime,
		ID:              m.ID,
		Name:            m.Name,
		StartTime:       m.StartTime,
	}
}

// domainToTaskModel converts a domain.Task to TaskModel (GORM)
func domainToTaskModel(t domain.Task) TaskModel {
	return TaskModel{
		ActivityID:      t.ActivityID,
		Closed:          t.Closed,
		DurationMinutes: t.DurationMinutes,
		EndTime:         t.EndTime,
		ID:              t.ID,
		Name:            t.Name,
		StartTime:       t.StartTime,
	}
}

// timeEntryModelToDomain converts a TimeEntryModel (GORM) to domain.TimeEntry
func timeEntryModelToDomain(m TimeEntryModel) domain.TimeEntry {
	return domain.TimeEntry{
		DurationSeconds: m.DurationSeconds,
		EndTime:         m.EndTime,
		ID:              m.ID,
		StartTime:       m.StartTime,
		TaskID:          m.TaskID,
	}
}

// domainToTimeEntryModel converts a domain.TimeEntry to TimeEntryModel (GORM)
func domainToTimeEntryModel(e domain.TimeEntry) TimeEntryModel {
	return TimeEntryModel{
		DurationSeconds: e.DurationSeconds,
		EndTime:         e.EndTime,
		ID:              e.ID,
		StartTime:       e.StartTime,
		TaskID:          e.TaskID,
	}
}
