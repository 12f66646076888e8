package services

import (
	"context"
	"errors"
	"fmt"

	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/ports"
)

// Aggregator recomputes the derived duration and hour figures bottom-up:
// time entries into the task, tasks into the activity.
type Aggregator struct{}

// NewAggregator creates a new Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// RecomputeTaskDuration sums the task's stopped entries into whole minutes,
// persists the task and then recomputes the owning activity.
func (a *Aggregator) RecomputeTaskDuration(ctx context.Context, repos ports.Repositories, taskID int64) error {
	task, err := repos.GetTask(ctx, taskID)
	if err != nil {
		return integrityError(err, "task", taskID)
	}

	entries, err := repos.ListTimeEntriesByTask(ctx, taskID)
	if err != nil {
		return err
	}

	var totalSeconds int64
	for _, entry := range entries {
		totalSeconds += entry.Seconds()
	}
	task.DurationMinutes = domain.SecondsToMinutes(totalSeconds)

	if err := repos.UpdateTask(ctx, task); err != nil {
		return err
	}

	logging.Logger.Debug("Task duration recomputed",
		"task", taskID,
		"entries", len(entries),
		"minutes", task.DurationMinutes)

	return a.RecomputeActivityHours(ctx, repos, task.ActivityID)
}

// RecomputeActivityHours sets CompletedHours from the sum of the activity's
// task minutes and RemainingHours from the estimate, then persists it.
func (a *Aggregator) RecomputeActivityHours(ctx context.Context, repos ports.Repositories, activityID int64) error {
	activity, err := repos.GetActivity(ctx, activityID)
	if err != nil {
		return integrityError(err, "activity", activityID)
	}

	tasks, err := repos.ListTasksByActivity(ctx, activityID)
	if err != nil {
		return err
	}

	var totalMinutes int64
	for _, task := range tasks {
		totalMinutes += task.DurationMinutes
	}
	activity.ApplyCompletedMinutes(totalMinutes)

	if err := repos.UpdateActivity(ctx, activity); err != nil {
		return err
	}

	logging.Logger.Debug("Activity hours recomputed",
		"activity", activityID,
		"completed", activity.CompletedHours,
		"remaining", activity.RemainingHours)
	return nil
}

// integrityError turns a missing aggregation target into ErrIntegrity
func integrityError(err error, kind string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %d missing during recomputation", domain.ErrIntegrity, kind, id)
	}
	return err
}
