package cmd

import (
	"context"
	"errors"
	"fmt"

	"tempo/internal/config"
	"tempo/internal/lockfile"
	"tempo/internal/logging"
	"tempo/internal/server"
)

// ServeCmd serves the HTTP API
type ServeCmd struct {
	Addr string `help:"Address to listen on (overrides $TEMPO_ADDR and settings.json)" default:"127.0.0.1:5001"`
}

// Run executes the serve command
func (s *ServeCmd) Run(cli *CLI) error {
	cfg := cli.ServeConfig(s.Addr)
	logging.Logger.Info("Executing serve command", "addr", cfg.Addr, "db", cfg.DBPath)

	lock, err := lockfile.Acquire(config.GetLockPath(cfg.DBPath))
	if err != nil {
		if errors.Is(err, lockfile.ErrLocked) {
			return fmt.Errorf("another tempo server is using %s: %w", cfg.DBPath, err)
		}
		return err
	}
	defer lock.Release()

	srv := server.NewServer(cfg.Addr, cli.Container.Handler(), cfg.ShutdownTimeout)

	fmt.Fprintf(cli.Stdout(), "tempo listening on http://%s (db: %s)\n", cfg.Addr, cfg.DBPath)
	return srv.Start(context.Background())
}
