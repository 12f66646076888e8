package services

import (
	"context"
	"errors"
	"fmt"

	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/ports"
)

// TimeEntryService starts and stops timers on tasks
type TimeEntryService struct {
	aggregator *Aggregator
	clock      ports.Clock
	taskLocks  *keyedMutex
	uow        ports.UnitOfWork
}

// NewTimeEntryService creates a new TimeEntryService
func NewTimeEntryService(uow ports.UnitOfWork, aggregator *Aggregator, clock ports.Clock) *TimeEntryService {
	return &TimeEntryService{
		aggregator: aggregator,
		clock:      clock,
		taskLocks:  newKeyedMutex(),
		uow:        uow,
	}
}

// Start opens a running entry on an open task of a non-finalized activity.
// The task's start time is set by its first entry.
func (s *TimeEntryService) Start(ctx context.Context, taskID int64) (*domain.TimeEntry, error) {
	unlock := s.taskLocks.Lock(taskID)
	defer unlock()

	var entry domain.TimeEntry
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		task, err := repos.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if task.Closed {
			return fmt.Errorf("%w: task %d", domain.ErrTaskClosed, taskID)
		}

		activity, err := repos.GetActivity(ctx, task.ActivityID)
		if err != nil {
			return integrityError(err, "activity", task.ActivityID)
		}
		if activity.Finalized {
			return fmt.Errorf("%w: activity %d", domain.ErrActivityFinalized, activity.ID)
		}

		if running, err := repos.GetActiveTimeEntry(ctx, taskID); err == nil {
			return fmt.Errorf("%w: entry %d on task %d", domain.ErrEntryAlreadyRunning, running.ID, taskID)
		} else if !isNotFound(err) {
			return err
		}

		count, err := repos.CountTimeEntries(ctx, taskID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		entry = domain.TimeEntry{TaskID: taskID, StartTime: now}
		if err := repos.CreateTimeEntry(ctx, &entry); err != nil {
			return err
		}

		if count == 0 {
			task.StartTime = &now
			return repos.UpdateTask(ctx, task)
		}
		return nil
	})
	if err != nil {
		logging.Logger.Warn("Timer start rejected", "task", taskID, "error", err)
		return nil, err
	}

	logging.Logger.Info("Timer started", "task", taskID, "entry", entry.ID)
	return &entry, nil
}

// Stop ends a running entry and recomputes the task and activity figures
// in the same transaction. A stopped entry cannot be stopped again.
func (s *TimeEntryService) Stop(ctx context.Context, entryID int64) (*domain.TimeEntry, error) {
	// task_id never changes, so it is safe to read it before locking
	peek, err := s.Get(ctx, entryID)
	if err != nil {
		return nil, err
	}

	unlock := s.taskLocks.Lock(peek.TaskID)
	defer unlock()

	var entry *domain.TimeEntry
	err = s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		current, err := repos.GetTimeEntry(ctx, entryID)
		if err != nil {
			return err
		}
		if err := current.Stop(s.clock.Now()); err != nil {
			return fmt.Errorf("%w: entry %d", err, entryID)
		}
		if err := repos.UpdateTimeEntry(ctx, current); err != nil {
			return err
		}
		if err := s.aggregator.RecomputeTaskDuration(ctx, repos, current.TaskID); err != nil {
			return err
		}
		entry = current
		return nil
	})
	if err != nil {
		logging.Logger.Warn("Timer stop rejected", "entry", entryID, "error", err)
		return nil, err
	}

	logging.Logger.Info("Timer stopped",
		"entry", entryID,
		"task", entry.TaskID,
		"seconds", entry.Seconds())
	return entry, nil
}

// Get returns the time entry with the given id
func (s *TimeEntryService) Get(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		entry, err = repos.GetTimeEntry(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByTask returns every entry of an existing task, oldest first
func (s *TimeEntryService) ListByTask(ctx context.Context, taskID int64) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		if _, err := repos.GetTask(ctx, taskID); err != nil {
			return err
		}
		var err error
		entries, err = repos.ListTimeEntriesByTask(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Active returns the running entry of a task, ErrNoActiveEntry when none
func (s *TimeEntryService) Active(ctx context.Context, taskID int64) (*domain.TimeEntry, error) {
	var entry *domain.TimeEntry
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		if _, err := repos.GetTask(ctx, taskID); err != nil {
			return err
		}
		var err error
		entry, err = repos.GetActiveTimeEntry(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
