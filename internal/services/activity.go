package services

import (
	"context"
	"fmt"

	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/ports"
)

// ActivityService handles activity lifecycle operations
type ActivityService struct {
	aggregator *Aggregator
	uow        ports.UnitOfWork
}

// NewActivityService creates a new ActivityService
func NewActivityService(uow ports.UnitOfWork, aggregator *Aggregator) *ActivityService {
	return &ActivityService{
		aggregator: aggregator,
		uow:        uow,
	}
}

// CreateActivityParams contains parameters for creating an activity
type CreateActivityParams struct {
	Name             string
	OriginalEstimate float64
}

// Create stores a new activity with no recorded work
func (s *ActivityService) Create(ctx context.Context, params CreateActivityParams) (*domain.Activity, error) {
	activity, err := domain.NewActivity(params.Name, params.OriginalEstimate)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		return repos.CreateActivity(ctx, &activity)
	})
	if err != nil {
		logging.Logger.Error("Failed to create activity", "name", activity.Name, "error", err)
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	logging.Logger.Info("Activity created", "activity", activity.ID, "name", activity.Name)
	return &activity, nil
}

// Get returns the activity with the given id
func (s *ActivityService) Get(ctx context.Context, id int64) (*domain.Activity, error) {
	var activity *domain.Activity
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		activity, err = repos.GetActivity(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// List returns the activities matching filter, ordered by id
func (s *ActivityService) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		activities, err = repos.ListActivities(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Update applies the set fields of update and recomputes the derived
// hours from the activity's tasks so they always reflect the new estimate.
func (s *ActivityService) Update(ctx context.Context, id int64, update domain.ActivityUpdate) (*domain.Activity, error) {
	logging.Logger.Info("Updating activity", "activity", id)

	var activity *domain.Activity
	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		current, err := repos.GetActivity(ctx, id)
		if err != nil {
			return err
		}
		if err := update.Apply(current); err != nil {
			return err
		}
		if err := repos.UpdateActivity(ctx, current); err != nil {
			return err
		}
		if err := s.aggregator.RecomputeActivityHours(ctx, repos, id); err != nil {
			return err
		}
		activity, err = repos.GetActivity(ctx, id)
		return err
	})
	if err != nil {
		logging.Logger.Warn("Activity update rejected", "activity", id, "error", err)
		return nil, err
	}

	logging.Logger.Info("Activity updated", "activity", id, "finalized", activity.Finalized)
	return activity, nil
}

// Delete removes the activity together with its tasks and their time entries
func (s *ActivityService) Delete(ctx context.Context, id int64) error {
	logging.Logger.Info("Deleting activity", "activity", id)

	err := s.uow.WithinTx(ctx, func(repos ports.Repositories) error {
		if _, err := repos.GetActivity(ctx, id); err != nil {
			return err
		}
		if err := repos.DeleteTimeEntriesByActivity(ctx, id); err != nil {
			return err
		}
		if err := repos.DeleteTasksByActivity(ctx, id); err != nil {
			return err
		}
		return repos.DeleteActivity(ctx, id)
	})
	if err != nil {
		logging.Logger.Warn("Activity delete failed", "activity", id, "error", err)
		return err
	}

	logging.Logger.Info("Activity deleted", "activity", id)
	return nil
}
