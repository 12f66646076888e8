package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/ports"
)

// SQLiteRepository implements ports.Store using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var (
	_ ports.Store        = (*SQLiteRepository)(nil)
	_ ports.Repositories = (*txRepositories)(nil)
)

// gormLogger wraps the tempo logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("TEMPO_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// dsn appends the driver options every connection in the pool needs.
// _txlock=immediate takes the write lock at BEGIN so concurrent
// transactions wait on busy_timeout instead of failing on lock upgrade.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate"
}

// NewSQLiteRepository opens (and migrates) the database at dbPath
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbPath = expandHome(dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	logging.Logger.Debug("Database opened", "path", dbPath)
	return &SQLiteRepository{db: db}, nil
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ActivityModel{}); err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to migrate activities schema: %w", err)
		}
	}

	migrator := db.Migrator()

	if !migrator.HasTable(&TaskModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				activity_id INTEGER NOT NULL,
				name TEXT NOT NULL,
				start_time DATETIME,
				end_time DATETIME,
				duration_minutes INTEGER NOT NULL DEFAULT 0,
				closed INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME,
				updated_at DATETIME,
				FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
			)
		`).Error; err != nil {
			return fmt.Errorf("failed to create tasks table: %w", err)
		}
	}

	if !migrator.HasTable(&TimeEntryModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS time_entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				task_id INTEGER NOT NULL,
				start_time DATETIME NOT NULL,
				end_time DATETIME,
				duration_seconds INTEGER,
				created_at DATETIME,
				updated_at DATETIME,
				FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
			)
		`).Error; err != nil {
			return fmt.Errorf("failed to create time_entries table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_tasks_activity ON tasks(activity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id)`,
		// At most one running entry per task
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_active ON time_entries(task_id) WHERE end_time IS NULL`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func expandHome(dbPath string) string {
	if len(dbPath) > 0 && dbPath[0] == '~' {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, dbPath[1:])
		}
	}
	return dbPath
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithinTx implements ports.UnitOfWork. fn may run more than once when
// SQLite reports the database as busy, so it must not leak side effects
// outside the transaction.
func (r *SQLiteRepository) WithinTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&txRepositories{db: tx})
		})
	}, 3)
}

// txRepositories implements ports.Repositories on top of one transaction
type txRepositories struct {
	db *gorm.DB
}

// Activities

func (r *txRepositories) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	var m ActivityModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrActivityNotFound, id)
		}
		return nil, fmt.Errorf("failed to get activity %d: %w", id, err)
	}
	a := activityModelToDomain(m)
	return &a, nil
}

func (r *txRepositories) ListActivities(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	query := r.db.WithContext(ctx).Model(&ActivityModel{})
	if filter.Finalized != nil {
		query = query.Where("finalized = ?", *filter.Finalized)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(name))+"%")
	}

	var models []ActivityModel
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	result := make([]domain.Activity, len(models))
	for i, m := range models {
		result[i] = activityModelToDomain(m)
	}
	return result, nil
}

func (r *txRepositories) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	m := domainToActivityModel(*activity)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	activity.ID = m.ID
	return nil
}

func (r *txRepositories) UpdateActivity(ctx context.Context, activity *domain.Activity) error {
	m := domainToActivityModel(*activity)
	result := r.db.WithContext(ctx).Model(&m).
		Select("name", "original_estimate", "completed_hours", "remaining_hours",
			"finalized", "price_per_hour", "money_received", "updated_at").
		Updates(&m)
	if result.Error != nil {
		return fmt.Errorf("failed to update activity %d: %w", activity.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrActivityNotFound, activity.ID)
	}
	return nil
}

func (r *txRepositories) DeleteActivity(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ActivityModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete activity %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrActivityNotFound, id)
	}
	return nil
}

// Tasks

func (r *txRepositories) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var m TaskModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	t := taskModelToDomain(m)
	return &t, nil
}

func (r *txRepositories) ListTasksByActivity(ctx context.Context, activityID int64) ([]domain.Task, error) {
	var models []TaskModel
	if err := r.db.WithContext(ctx).Where("activity_id = ?", activityID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks of activity %d: %w", activityID, err)
	}

	result := make([]domain.Task, len(models))
	for i, m := range models {
		result[i] = taskModelToDomain(m)
	}
	return result, nil
}

func (r *txRepositories) CreateTask(ctx context.Context, task *domain.Task) error {
	m := domainToTaskModel(*task)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = m.ID
	return nil
}

func (r *txRepositories) UpdateTask(ctx context.Context, task *domain.Task) error {
	m := domainToTaskModel(*task)
	result := r.db.WithContext(ctx).Model(&m).
		Select("name", "start_time", "end_time", "duration_minutes", "closed", "updated_at").
		Updates(&m)
	if result.Error != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrTaskNotFound, task.ID)
	}
	return nil
}

func (r *txRepositories) DeleteTask(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&TaskModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrTaskNotFound, id)
	}
	return nil
}

func (r *txRepositories) DeleteTasksByActivity(ctx context.Context, activityID int64) error {
	if err := r.db.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&TaskModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete tasks of activity %d: %w", activityID, err)
	}
	return nil
}

// Time entries

func (r *txRepositories) GetTimeEntry(ctx context.Context, id int64) (*domain.TimeEntry, error) {
	var m TimeEntryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrTimeEntryNotFound, id)
		}
		return nil, fmt.Errorf("failed to get time entry %d: %w", id, err)
	}
	e := timeEntryModelToDomain(m)
	return &e, nil
}

func (r *txRepositories) GetActiveTimeEntry(ctx context.Context, taskID int64) (*domain.TimeEntry, error) {
	var m TimeEntryModel
	err := r.db.WithContext(ctx).Where("task_id = ? AND end_time IS NULL", taskID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", domain.ErrNoActiveEntry, taskID)
		}
		return nil, fmt.Errorf("failed to get running time entry of task %d: %w", taskID, err)
	}
	e := timeEntryModelToDomain(m)
	return &e, nil
}

func (r *txRepositories) CountTimeEntries(ctx context.Context, taskID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TimeEntryModel{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count time entries of task %d: %w", taskID, err)
	}
	return count, nil
}

func (r *txRepositories) ListTimeEntriesByTask(ctx context.Context, taskID int64) ([]domain.TimeEntry, error) {
	var models []TimeEntryModel
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list time entries of task %d: %w", taskID, err)
	}

	result := make([]domain.TimeEntry, len(models))
	for i, m := range models {
		result[i] = timeEntryModelToDomain(m)
	}
	return result, nil
}

func (r *txRepositories) CreateTimeEntry(ctx context.Context, entry *domain.TimeEntry) error {
	m := domainToTimeEntryModel(*entry)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: task %d", domain.ErrEntryAlreadyRunning, entry.TaskID)
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	entry.ID = m.ID
	return nil
}

func (r *txRepositories) UpdateTimeEntry(ctx context.Context, entry *domain.TimeEntry) error {
	m := domainToTimeEntryModel(*entry)
	result := r.db.WithContext(ctx).Model(&m).
		Select("end_time", "duration_seconds", "updated_at").
		Updates(&m)
	if result.Error != nil {
		return fmt.Errorf("failed to update time entry %d: %w", entry.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrTimeEntryNotFound, entry.ID)
	}
	return nil
}

func (r *txRepositories) DeleteTimeEntriesByTask(ctx context.Context, taskID int64) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&TimeEntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete time entries of task %d: %w", taskID, err)
	}
	return nil
}

func (r *txRepositories) DeleteTimeEntriesByActivity(ctx context.Context, activityID int64) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM time_entries WHERE task_id IN (SELECT id FROM tasks WHERE activity_id = ?)", activityID).
		Error
	if err != nil {
		return fmt.Errorf("failed to delete time entries of activity %d: %w", activityID, err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// withRetry retries fn when SQLite reports the database busy or locked
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			logging.Logger.Debug("Database busy, retrying", "attempt", i+1, "error", err)
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
