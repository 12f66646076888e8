package cmd

import (
	"net/http"

	adapterstorage "tempo/internal/adapters/storage"
	"tempo/internal/api"
	"tempo/internal/logging"
	"tempo/internal/ports"
	"tempo/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	ActivityService  *services.ActivityService
	TaskService      *services.TaskService
	TimeEntryService *services.TimeEntryService

	// DBPath is the database the container was opened on
	DBPath string

	// Internal - for cleanup and health checks
	store ports.Store
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(dbPath string) (*Container, error) {
	store, err := adapterstorage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, err
	}
	return newContainerWithStore(store, ports.SystemClock{}, dbPath), nil
}

func newContainerWithStore(store ports.Store, clock ports.Clock, dbPath string) *Container {
	aggregator := services.NewAggregator()

	logging.Logger.Debug("Container wired", "db", dbPath)
	return &Container{
		ActivityService:  services.NewActivityService(store, aggregator),
		DBPath:           dbPath,
		TaskService:      services.NewTaskService(store, aggregator, clock),
		TimeEntryService: services.NewTimeEntryService(store, aggregator, clock),
		store:            store,
	}
}

// Handler returns the HTTP API bound to the container's services
func (c *Container) Handler() http.Handler {
	return api.NewRouter(api.RouterParams{
		Activities: c.ActivityService,
		Entries:    c.TimeEntryService,
		Store:      c.store,
		Tasks:      c.TaskService,
	})
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
