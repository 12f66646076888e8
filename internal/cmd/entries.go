package cmd

import (
	"context"
	"fmt"
	"time"

	"tempo/internal/api"
	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/theme"
)

// EntriesCmd starts and stops timers
type EntriesCmd struct {
	Active EntriesActiveCmd `cmd:"active" help:"Show the running timer of a task"`
	List   EntriesListCmd   `cmd:"list" help:"List the time entries of a task"`
	Start  EntriesStartCmd  `cmd:"start" help:"Start a timer on a task"`
	Stop   EntriesStopCmd   `cmd:"stop" help:"Stop a running timer"`
}

// EntriesStartCmd starts a timer
type EntriesStartCmd struct {
	TaskID int64 `arg:"" help:"Task id"`
}

// Run executes the start command
func (e *EntriesStartCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing entries start command", "task", e.TaskID)

	entry, err := cli.Container.TimeEntryService.Start(context.Background(), e.TaskID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Timer %d %s on task %d\n", entry.ID, theme.EntryState(true), entry.TaskID)
	return nil
}

// EntriesStopCmd stops a timer
type EntriesStopCmd struct {
	ID int64 `arg:"" help:"Time entry id"`
}

// Run executes the stop command
func (e *EntriesStopCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing entries stop command", "entry", e.ID)

	entry, err := cli.Container.TimeEntryService.Stop(context.Background(), e.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Timer %d %s after %s\n",
		entry.ID,
		theme.EntryState(false),
		time.Duration(entry.Seconds())*time.Second)
	return nil
}

// EntriesListCmd lists the entries of a task
type EntriesListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	TaskID int64  `arg:"" help:"Task id"`
}

// Run executes the list command
func (e *EntriesListCmd) Run(cli *CLI) error {
	entries, err := cli.Container.TimeEntryService.ListByTask(context.Background(), e.TaskID)
	if err != nil {
		return err
	}

	out := cli.Stdout()
	if e.Format == "json" {
		return printJSON(out, api.TimeEntryViews(entries))
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No time entries found")
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tSTARTED\tENDED\tDURATION\tSTATE")
	for _, entry := range entries {
		ended := "-"
		if entry.EndTime != nil {
			ended = entry.EndTime.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			entry.ID,
			entry.StartTime.Local().Format(time.DateTime),
			ended,
			time.Duration(entry.Seconds())*time.Second,
			theme.EntryState(entry.State() == domain.EntryRunning))
	}
	return w.Flush()
}

// EntriesActiveCmd shows the running entry of a task
type EntriesActiveCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	TaskID int64  `arg:"" help:"Task id"`
}

// Run executes the active command
func (e *EntriesActiveCmd) Run(cli *CLI) error {
	entry, err := cli.Container.TimeEntryService.Active(context.Background(), e.TaskID)
	if err != nil {
		return err
	}

	out := cli.Stdout()
	if e.Format == "json" {
		return printJSON(out, api.NewTimeEntryView(*entry))
	}

	fmt.Fprintf(out, "Timer %d %s since %s\n",
		entry.ID,
		theme.EntryState(true),
		entry.StartTime.Local().Format(time.DateTime))
	return nil
}
