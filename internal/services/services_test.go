package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tempo/internal/adapters/storage"
	"tempo/internal/domain"
	"tempo/internal/ports"
)

// fakeClock returns a settable instant
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockClock is a testify double for ports.Clock
type mockClock struct {
	mock.Mock
}

func (m *mockClock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

type testEnv struct {
	activities *ActivityService
	clock      *fakeClock
	entries    *TimeEntryService
	store      ports.Store
	tasks      *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	clock := &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	aggregator := NewAggregator()
	return &testEnv{
		activities: NewActivityService(store, aggregator),
		clock:      clock,
		entries:    NewTimeEntryService(store, aggregator, clock),
		store:      store,
		tasks:      NewTaskService(store, aggregator, clock),
	}
}

func (e *testEnv) seed(t *testing.T, estimate float64) (*domain.Activity, *domain.Task) {
	t.Helper()
	ctx := context.Background()
	activity, err := e.activities.Create(ctx, CreateActivityParams{Name: "A", OriginalEstimate: estimate})
	require.NoError(t, err)
	task, err := e.tasks.Create(ctx, CreateTaskParams{ActivityID: activity.ID, Name: "T"})
	require.NoError(t, err)
	return activity, task
}

func TestActivityService_CreateStartsWithFullBudget(t *testing.T) {
	env := newTestEnv(t)

	activity, err := env.activities.Create(context.Background(), CreateActivityParams{Name: "A", OriginalEstimate: 10})

	require.NoError(t, err)
	assert.Equal(t, 0.0, activity.CompletedHours)
	assert.Equal(t, 10.0, activity.RemainingHours)
	assert.False(t, activity.Finalized)
}

func TestActivityService_CreateRejectsBlankName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.activities.Create(context.Background(), CreateActivityParams{Name: "  ", OriginalEstimate: 1})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStopAfterOneHour_CascadesToTaskAndActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 10)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryRunning, entry.State())

	env.clock.Advance(3600 * time.Second)
	stopped, err := env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stopped.DurationSeconds)
	assert.Equal(t, int64(3600), *stopped.DurationSeconds)

	gotTask, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), gotTask.DurationMinutes)
	assert.Equal(t, 1.0, gotTask.DurationHours())

	gotActivity, err := env.activities.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, gotActivity.CompletedHours)
	assert.Equal(t, 9.0, gotActivity.RemainingHours)
}

func TestStart_SetsTaskStartTimeOnlyOnFirstEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)
	first := env.clock.Now()

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	_, err = env.entries.Start(ctx, task.ID)
	require.NoError(t, err)

	got, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.True(t, got.StartTime.Equal(first))
}

func TestStop_TwiceFailsAndKeepsDuration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(90 * time.Second)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	_, err = env.entries.Stop(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryAlreadyStopped)
	assert.ErrorIs(t, err, domain.ErrRuleViolation)

	got, err := env.entries.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), got.Seconds())

	gotTask, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gotTask.DurationMinutes)
}

func TestStart_RejectsSecondRunningEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	_, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)

	_, err = env.entries.Start(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrEntryAlreadyRunning)

	entries, err := env.entries.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStart_ConcurrentStartsLeaveOneRunningEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.entries.Start(ctx, task.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrEntryAlreadyRunning)
	}
	assert.Equal(t, 1, succeeded)
}

func TestStart_ClosedTaskCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	_, err := env.tasks.Close(ctx, task.ID)
	require.NoError(t, err)

	_, err = env.entries.Start(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskClosed)

	entries, err := env.entries.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStart_FinalizedActivityCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 1)

	finalized := true
	_, err := env.activities.Update(ctx, activity.ID, domain.ActivityUpdate{Finalized: &finalized})
	require.NoError(t, err)

	_, err = env.entries.Start(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrActivityFinalized)

	entries, err := env.entries.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStop_AllowedAfterTaskClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	_, err = env.tasks.Close(ctx, task.ID)
	require.NoError(t, err)

	env.clock.Advance(2 * time.Minute)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)
}

func TestActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	_, err := env.entries.Active(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNoActiveEntry)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)

	active, err := env.entries.Active(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, active.ID)

	_, err = env.entries.Active(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_CreateUnderFinalizedActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, _ := env.seed(t, 1)

	finalized := true
	_, err := env.activities.Update(ctx, activity.ID, domain.ActivityUpdate{Finalized: &finalized})
	require.NoError(t, err)

	_, err = env.tasks.Create(ctx, CreateTaskParams{ActivityID: activity.ID, Name: "late"})
	assert.ErrorIs(t, err, domain.ErrActivityFinalized)

	_, err = env.tasks.Create(ctx, CreateTaskParams{ActivityID: 999, Name: "orphan"})
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestTaskService_DeleteRecomputesActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 5)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(90 * time.Minute)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	got, err := env.activities.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.CompletedHours)

	require.NoError(t, env.tasks.Delete(ctx, task.ID))

	got, err = env.activities.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.CompletedHours)
	assert.Equal(t, 5.0, got.RemainingHours)

	_, err = env.entries.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrTimeEntryNotFound)
}

func TestTaskService_DeleteBlockedWhenActivityFinalized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 1)

	finalized := true
	_, err := env.activities.Update(ctx, activity.ID, domain.ActivityUpdate{Finalized: &finalized})
	require.NoError(t, err)

	err = env.tasks.Delete(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrActivityFinalized)

	_, err = env.tasks.Get(ctx, task.ID)
	assert.NoError(t, err)
}

func TestTaskService_CloseTwiceMovesEndTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	first, err := env.tasks.Close(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	second, err := env.tasks.Close(ctx, task.ID)
	require.NoError(t, err)

	assert.True(t, second.Closed)
	assert.True(t, second.EndTime.After(*first.EndTime))
}

func TestTaskService_Rename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	renamed, err := env.tasks.Rename(ctx, task.ID, " Review ")
	require.NoError(t, err)
	assert.Equal(t, "Review", renamed.Name)

	_, err = env.tasks.Rename(ctx, task.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskService_ListByMissingActivity(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.ListByActivity(context.Background(), 404)

	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestActivityService_UpdateRecomputesRemaining(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 10)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(2 * time.Hour)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	estimate := 3.0
	price := 25.0
	updated, err := env.activities.Update(ctx, activity.ID, domain.ActivityUpdate{
		OriginalEstimate: &estimate,
		PricePerHour:     &price,
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, updated.CompletedHours)
	assert.Equal(t, 1.0, updated.RemainingHours)
	amount, ok := updated.BillableAmount()
	assert.True(t, ok)
	assert.Equal(t, 50.0, amount)
}

func TestActivityService_RemainingMayGoNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 1)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)
	env.clock.Advance(150 * time.Minute)
	_, err = env.entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	got, err := env.activities.Get(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.CompletedHours)
	assert.Equal(t, -1.5, got.RemainingHours)
}

func TestActivityService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	activity, task := env.seed(t, 1)

	entry, err := env.entries.Start(ctx, task.ID)
	require.NoError(t, err)

	require.NoError(t, env.activities.Delete(ctx, activity.ID))

	_, err = env.activities.Get(ctx, activity.ID)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
	_, err = env.tasks.Get(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = env.entries.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrTimeEntryNotFound)

	err = env.activities.Delete(ctx, activity.ID)
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestActivityService_ListDefaultsAndNameFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha", "Beta", "alphabet"} {
		_, err := env.activities.Create(ctx, CreateActivityParams{Name: name, OriginalEstimate: 1})
		require.NoError(t, err)
	}

	list, err := env.activities.List(ctx, domain.ActivityFilter{Name: "alpha"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAggregator_MissingTargetIsIntegrityError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aggregator := NewAggregator()

	err := env.store.WithinTx(ctx, func(repos ports.Repositories) error {
		return aggregator.RecomputeTaskDuration(ctx, repos, 77)
	})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	err = env.store.WithinTx(ctx, func(repos ports.Repositories) error {
		return aggregator.RecomputeActivityHours(ctx, repos, 77)
	})
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}

func TestAggregator_FloorsTotalSecondsNotPerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, task := env.seed(t, 1)

	// Two 90 second entries make 3 minutes, not 1 + 1
	for i := 0; i < 2; i++ {
		entry, err := env.entries.Start(ctx, task.ID)
		require.NoError(t, err)
		env.clock.Advance(90 * time.Second)
		_, err = env.entries.Stop(ctx, entry.ID)
		require.NoError(t, err)
	}

	got, err := env.tasks.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.DurationMinutes)
}

func TestTimeEntryService_UsesClockForStartAndStop(t *testing.T) {
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tempo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	start := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	clock := &mockClock{}
	clock.On("Now").Return(start).Once()
	clock.On("Now").Return(start.Add(45 * time.Second)).Once()

	aggregator := NewAggregator()
	activities := NewActivityService(store, aggregator)
	tasks := NewTaskService(store, aggregator, ports.SystemClock{})
	entries := NewTimeEntryService(store, aggregator, clock)

	ctx := context.Background()
	activity, err := activities.Create(ctx, CreateActivityParams{Name: "A", OriginalEstimate: 1})
	require.NoError(t, err)
	task, err := tasks.Create(ctx, CreateTaskParams{ActivityID: activity.ID, Name: "T"})
	require.NoError(t, err)

	entry, err := entries.Start(ctx, task.ID)
	require.NoError(t, err)
	stopped, err := entries.Stop(ctx, entry.ID)
	require.NoError(t, err)

	assert.True(t, stopped.StartTime.Equal(start))
	assert.Equal(t, int64(45), stopped.Seconds())
	clock.AssertExpectations(t)
}

func TestKeyedMutex_ReleasesKeys(t *testing.T) {
	k := newKeyedMutex()

	unlock := k.Lock(1)
	assert.Len(t, k.locks, 1)
	unlock()

	assert.Empty(t, k.locks)
}
