package storage

import "time"

// ActivityModel is the GORM model for the activities table
type ActivityModel struct {
	CompletedHours   float64 `gorm:"not null"`
	CreatedAt        time.Time
	Finalized        bool     `gorm:"not null;index:idx_activities_finalized"`
	ID               int64    `gorm:"primaryKey;autoIncrement"`
	MoneyReceived    *bool    `gorm:"default:null"`
	Name             string   `gorm:"not null"`
	OriginalEstimate float64  `gorm:"not null"`
	PricePerHour     *float64 `gorm:"default:null"`
	RemainingHours   float64  `gorm:"not null"`
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (ActivityModel) TableName() string { return "activities" }

// TaskModel is the GORM model for the tasks table
type TaskModel struct {
	ActivityID      int64 `gorm:"not null;index:idx_tasks_activity"`
	Closed          bool  `gorm:"not null"`
	CreatedAt       time.Time
	DurationMinutes int64      `gorm:"not null"`
	EndTime         *time.Time `gorm:"default:null"`
	ID              int64      `gorm:"primaryKey;autoIncrement"`
	Name            string     `gorm:"not null"`
	StartTime       *time.Time `gorm:"default:null"`
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (TaskModel) TableName() string { return "tasks" }

// TimeEntryModel is the GORM model for the time_entries table
type TimeEntryModel struct {
	CreatedAt       time.Time
	DurationSeconds *int64     `gorm:"default:null"`
	EndTime         *time.Time `gorm:"default:null"`
	ID              int64      `gorm:"primaryKey;autoIncrement"`
	StartTime       time.Time  `gorm:"not null"`
	TaskID          int64      `gorm:"not null;index:idx_time_entries_task"`
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (TimeEntryModel) TableName() string { return "time_entries" }
