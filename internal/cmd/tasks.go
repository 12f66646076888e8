package cmd

import (
	"context"
	"fmt"

	"tempo/internal/api"
	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/services"
	"tempo/internal/theme"
)

// TasksCmd manages tasks
type TasksCmd struct {
	Add    TasksAddCmd    `cmd:"add" help:"Add a task to an activity"`
	Close  TasksCloseCmd  `cmd:"close" help:"Close a task so no new timer can start on it"`
	Del    TasksDelCmd    `cmd:"del" help:"Delete a task and its time entries"`
	List   TasksListCmd   `cmd:"list" help:"List the tasks of an activity"`
	Rename TasksRenameCmd `cmd:"rename" help:"Rename a task"`
}

// TasksListCmd lists the tasks of an activity
type TasksListCmd struct {
	ActivityID int64  `arg:"" help:"Activity id"`
	Format     string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the list command
func (t *TasksListCmd) Run(cli *CLI) error {
	tasks, err := cli.Container.TaskService.ListByActivity(context.Background(), t.ActivityID)
	if err != nil {
		return err
	}

	out := cli.Stdout()
	if t.Format == "json" {
		return printJSON(out, api.TaskViews(tasks))
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found")
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tSTARTED\tENDED\tHOURS\tSTATE")
	for _, task := range tasks {
		view := api.NewTaskView(task)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\n",
			task.ID,
			task.Name,
			orDash(view.StartTime),
			orDash(view.EndTime),
			view.Duration,
			theme.TaskState(task.Closed))
	}
	return w.Flush()
}

// TasksAddCmd adds a task
type TasksAddCmd struct {
	ActivityID int64  `arg:"" help:"Activity id"`
	Name       string `arg:"" help:"Name of the task"`
}

// Run executes the add command
func (t *TasksAddCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing tasks add command", "activity", t.ActivityID, "name", t.Name)

	task, err := cli.Container.TaskService.Create(context.Background(), services.CreateTaskParams{
		ActivityID: t.ActivityID,
		Name:       t.Name,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Task '%s' created with id %d\n", task.Name, task.ID)
	return nil
}

// TasksRenameCmd renames a task
type TasksRenameCmd struct {
	ID   int64  `arg:"" help:"Task id"`
	Name string `arg:"" help:"New name"`
}

// Run executes the rename command
func (t *TasksRenameCmd) Run(cli *CLI) error {
	task, err := cli.Container.TaskService.Rename(context.Background(), t.ID, t.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Task %d renamed to '%s'\n", task.ID, task.Name)
	return nil
}

// TasksCloseCmd closes a task
type TasksCloseCmd struct {
	ID int64 `arg:"" help:"Task id"`
}

// Run executes the close command
func (t *TasksCloseCmd) Run(cli *CLI) error {
	task, err := cli.Container.TaskService.Close(context.Background(), t.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Task '%s' closed at %s\n", task.Name, task.EndTime.Format(api.TaskTimeLayout))
	return nil
}

// TasksDelCmd deletes a task
type TasksDelCmd struct {
	Force bool  `help:"Force deletion without confirmation" short:"f"`
	ID    int64 `arg:"" help:"Task id"`
}

// Run executes the del command
func (t *TasksDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	logging.Logger.Info("Executing tasks del command", "task", t.ID, "force", t.Force)

	task, err := cli.Container.TaskService.Get(ctx, t.ID)
	if err != nil {
		return err
	}

	if !t.Force {
		ok, err := confirmFunc(
			fmt.Sprintf("Delete task '%s'?", task.Name),
			fmt.Sprintf("Its time entries are deleted and %.2f h are removed from the activity.", domain.RoundHours(task.DurationHours())),
		)
		if err != nil {
			return err
		}
		if !ok {
			logging.Logger.Info("User cancelled task deletion", "task", t.ID)
			fmt.Fprintln(cli.Stdout(), "Cancelled")
			return nil
		}
	}

	if err := cli.Container.TaskService.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	fmt.Fprintf(cli.Stdout(), "Task '%s' deleted\n", task.Name)
	return nil
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
