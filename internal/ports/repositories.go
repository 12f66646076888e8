package ports

import (
	"context"

	"tempo/internal/domain"
)

// ActivityReader reads activities
type ActivityReader interface {
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	ListActivities(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error)
}

// ActivityWriter creates, updates and deletes activities
type ActivityWriter interface {
	CreateActivity(ctx context.Context, activity *domain.Activity) error
	DeleteActivity(ctx context.Context, id int64) error
	UpdateActivity(ctx context.Context, activity *domain.Activity) error
}

// TaskReader reads tasks
type TaskReader interface {
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasksByActivity(ctx context.Context, activityID int64) ([]domain.Task, error)
}

// TaskWriter creates, updates and deletes tasks
type TaskWriter interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error
	DeleteTasksByActivity(ctx context.Context, activityID int64) error
	UpdateTask(ctx context.Context, task *domain.Task) error
}

// TimeEntryReader reads time entries
type TimeEntryReader interface {
	CountTimeEntries(ctx context.Context, taskID int64) (int64, error)
	GetActiveTimeEntry(ctx context.Context, taskID int64) (*domain.TimeEntry, error)
	GetTimeEntry(ctx context.Context, id int64) (*domain.TimeEntry, error)
	ListTimeEntriesByTask(ctx context.Context, taskID int64) ([]domain.TimeEntry, error)
}

// TimeEntryWriter creates, updates and deletes time entries
type TimeEntryWriter interface {
	CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) error
	DeleteTimeEntriesByActivity(ctx context.Context, activityID int64) error
	DeleteTimeEntriesByTask(ctx context.Context, taskID int64) error
	UpdateTimeEntry(ctx context.Context, entry *domain.TimeEntry) error
}

// Repositories is the set of repositories bound to one unit of work
type Repositories interface {
	ActivityReader
	ActivityWriter
	TaskReader
	TaskWriter
	TimeEntryReader
	TimeEntryWriter
}

// UnitOfWork runs fn against repositories scoped to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store is the composite persistence gateway
type Store interface {
	UnitOfWork
	Ping(ctx context.Context) error
	Close() error
}
