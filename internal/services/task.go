package services

import (
	"context"
	"fmt"

	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/ports"
)

// TaskService handles task lifecycle operations
type TaskService struct {
	aggregator *Aggregator
	clock      ports.Clock
	uow        ports.UnitOfWork
}

// NewTaskService creates a new TaskService
func NewTaskService(uow ports.UnitOfWork, aggregator *Aggregator, clock ports.Clock) *TaskService {
	return &TaskService{
		aggregator: aggregator,
		clock:      clock,
		uow:        uow,
	}
}

// CreateTaskParams contains parameters for creating a task
type CreateTaskParams struct {
	ActivityID int64
	Name       string
}

// Create adds an open task to a non-finalized activity
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	task, err := domain.NewTask(params.ActivityID, params.Name)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		activity, err := repos.GetActivity(ctx, params.ActivityID)
		if err != nil {
			return err
		}
		if activity.Finalized {
			return fmt.Errorf("%w: cannot add tasks to activity %d", domain.ErrActivityFinalized, activity.ID)
		}
		return repos.CreateTask(ctx, &task)
	})
	if err != nil {
		logging.Logger.Warn("Task create rejected", "activity", params.ActivityID, "error", err)
		return nil, err
	}

	logging.Logger.Info("Task created", "task", task.ID, "activity", task.ActivityID, "name", task.Name)
	return &task, nil
}

// Get returns the task with the given id
func (s *TaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	var task *domain.Task
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		task, err = repos.GetTask(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListByActivity returns the tasks of an existing activity
func (s *TaskService) ListByActivity(ctx context.Context, activityID int64) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		if _, err := repos.GetActivity(ctx, activityID); err != nil {
			return err
		}
		var err error
		tasks, err = repos.ListTasksByActivity(ctx, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Rename changes the task name. Nothing else about a task is client-editable.
func (s *TaskService) Rename(ctx context.Context, id int64, name string) (*domain.Task, error) {
	var task *domain.Task
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		current, err := repos.GetTask(ctx, id)
		if err != nil {
			return err
		}
		renamed, err := domain.NewTask(current.ActivityID, name)
		if err != nil {
			return err
		}
		current.Name = renamed.Name
		if err := repos.UpdateTask(ctx, current); err != nil {
			return err
		}
		task = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Task renamed", "task", id, "name", task.Name)
	return task, nil
}

// Close marks the task closed so no new time entry can start on it.
// A running entry is left alone and can still be stopped.
func (s *TaskService) Close(ctx context.Context, id int64) (*domain.Task, error) {
	now := s.clock.Now()

	var task *domain.Task
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		current, err := repos.GetTask(ctx, id)
		if err != nil {
			return err
		}
		current.Close(now)
		if err := repos.UpdateTask(ctx, current); err != nil {
			return err
		}
		task = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("Task closed", "task", id)
	return task, nil
}

// Delete removes the task and its time entries, then recomputes the
// activity's hours. Tasks of finalized activities cannot be deleted.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	logging.Logger.Info("Deleting task", "task", id)

	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		task, err := repos.GetTask(ctx, id)
		if err != nil {
			return err
		}
		activity, err := repos.GetActivity(ctx, task.ActivityID)
		if err != nil {
			return integrityError(err, "activity", task.ActivityID)
		}
		if activity.Finalized {
			return fmt.Errorf("%w: cannot delete tasks of activity %d", domain.ErrActivityFinalized, activity.ID)
		}
		if err := repos.DeleteTimeEntriesByTask(ctx, id); err != nil {
			return err
		}
		if err := repos.DeleteTask(ctx, id); err != nil {
			return err
		}
		return s.aggregator.RecomputeActivityHours(ctx, repos, activity.ID)
	})
	if err != nil {
		logging.Logger.Warn("Task delete failed", "task", id, "error", err)
		return err
	}

	logging.Logger.Info("Task deleted", "task", id)
	return nil
}
