package cmd

import (
	"context"
	"fmt"
	"strconv"

	"tempo/internal/api"
	"tempo/internal/domain"
	"tempo/internal/logging"
	"tempo/internal/services"
	"tempo/internal/theme"
)

// ActivitiesCmd manages activities
type ActivitiesCmd struct {
	Add  ActivitiesAddCmd  `cmd:"add" help:"Add a new activity"`
	Del  ActivitiesDelCmd  `cmd:"del" help:"Delete an activity with its tasks and time entries"`
	List ActivitiesListCmd `cmd:"list" help:"List activities" default:"1"`
	Set  ActivitiesSetCmd  `cmd:"set" help:"Update an activity"`
	View ActivitiesViewCmd `cmd:"view" help:"View an activity and its tasks"`
}

// ActivitiesListCmd lists activities
type ActivitiesListCmd struct {
	Finalized string `help:"Filter by state: true, false or all" enum:"true,false,all" default:"false"`
	Format    string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Name      string `help:"Case-insensitive substring of the activity name"`
}

// Run executes the list command
func (a *ActivitiesListCmd) Run(cli *CLI) error {
	filter := domain.ActivityFilter{Name: a.Name}
	if a.Finalized != "all" {
		finalized, _ := strconv.ParseBool(a.Finalized)
		filter.Finalized = &finalized
	}

	activities, err := cli.Container.ActivityService.List(context.Background(), filter)
	if err != nil {
		return err
	}

	out := cli.Stdout()
	if a.Format == "json" {
		return printJSON(out, api.ActivityViews(activities))
	}

	if len(activities) == 0 {
		fmt.Fprintln(out, "No activities found")
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tESTIMATE\tCOMPLETED\tREMAINING\tSTATE")
	for _, activity := range activities {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%s\t%s\n",
			activity.ID,
			activity.Name,
			activity.OriginalEstimate,
			domain.RoundHours(activity.CompletedHours),
			theme.RemainingHours(domain.RoundHours(activity.RemainingHours)),
			theme.ActivityState(activity.Finalized))
	}
	return w.Flush()
}

// ActivitiesAddCmd adds an activity
type ActivitiesAddCmd struct {
	Name     string  `arg:"" help:"Name of the activity"`
	Estimate float64 `arg:"" help:"Original estimate in hours"`
}

// Run executes the add command
func (a *ActivitiesAddCmd) Run(cli *CLI) error {
	logging.Logger.Info("Executing activities add command", "name", a.Name, "estimate", a.Estimate)

	activity, err := cli.Container.ActivityService.Create(context.Background(), services.CreateActivityParams{
		Name:             a.Name,
		OriginalEstimate: a.Estimate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Activity '%s' created with id %d\n", activity.Name, activity.ID)
	return nil
}

// ActivitiesViewCmd shows one activity
type ActivitiesViewCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	ID     int64  `arg:"" help:"Activity id"`
}

// Run executes the view command
func (a *ActivitiesViewCmd) Run(cli *CLI) error {
	ctx := context.Background()

	activity, err := cli.Container.ActivityService.Get(ctx, a.ID)
	if err != nil {
		return err
	}
	tasks, err := cli.Container.TaskService.ListByActivity(ctx, a.ID)
	if err != nil {
		return err
	}

	out := cli.Stdout()
	if a.Format == "json" {
		return printJSON(out, map[string]any{
			"activity": api.NewActivityView(*activity),
			"tasks":    api.TaskViews(tasks),
		})
	}

	fmt.Fprintln(out, theme.TitleStyle.Render(activity.Name))
	fmt.Fprintln(out, theme.Detail("ID", strconv.FormatInt(activity.ID, 10)))
	fmt.Fprintln(out, theme.Detail("State", theme.ActivityState(activity.Finalized)))
	fmt.Fprintln(out, theme.Detail("Estimate (h)", fmt.Sprintf("%.2f", activity.OriginalEstimate)))
	fmt.Fprintln(out, theme.Detail("Completed (h)", fmt.Sprintf("%.2f", domain.RoundHours(activity.CompletedHours))))
	fmt.Fprintln(out, theme.Detail("Remaining (h)", theme.RemainingHours(domain.RoundHours(activity.RemainingHours))))
	fmt.Fprintln(out, theme.Detail("Price per hour", formatOptional(activity.PricePerHour)))
	if amount, ok := activity.BillableAmount(); ok {
		fmt.Fprintln(out, theme.Detail("Billable", fmt.Sprintf("%.2f", amount)))
	}
	if activity.MoneyReceived != nil {
		fmt.Fprintln(out, theme.Detail("Money received", strconv.FormatBool(*activity.MoneyReceived)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.SubtitleStyle.Render("Tasks"))
	if len(tasks) == 0 {
		fmt.Fprintln(out, theme.MutedStyle.Render("No tasks"))
		return nil
	}

	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tHOURS\tSTATE")
	for _, task := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n",
			task.ID,
			task.Name,
			domain.RoundHours(task.DurationHours()),
			theme.TaskState(task.Closed))
	}
	return w.Flush()
}

// ActivitiesSetCmd updates an activity
type ActivitiesSetCmd struct {
	Estimate *float64 `help:"New original estimate in hours"`
	Finalize bool     `help:"Mark the activity finalized" xor:"finalized"`
	ID       int64    `arg:"" help:"Activity id"`
	Name     *string  `help:"New name"`
	Paid     bool     `help:"Mark the money as received" xor:"paid"`
	Price    *float64 `help:"Price per hour"`
	Reopen   bool     `help:"Mark the activity not finalized" xor:"finalized"`
	Unpaid   bool     `help:"Mark the money as not received" xor:"paid"`
}

// Run executes the set command
func (a *ActivitiesSetCmd) Run(cli *CLI) error {
	update := domain.ActivityUpdate{
		Name:             a.Name,
		OriginalEstimate: a.Estimate,
		PricePerHour:     a.Price,
	}
	if a.Finalize || a.Reopen {
		finalized := a.Finalize
		update.Finalized = &finalized
	}
	if a.Paid || a.Unpaid {
		received := a.Paid
		update.MoneyReceived = &received
	}

	logging.Logger.Info("Executing activities set command", "activity", a.ID)
	activity, err := cli.Container.ActivityService.Update(context.Background(), a.ID, update)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.Stdout(), "Activity %d updated (remaining %.2f h)\n", activity.ID, domain.RoundHours(activity.RemainingHours))
	return nil
}

// ActivitiesDelCmd deletes an activity
type ActivitiesDelCmd struct {
	Force bool  `help:"Force deletion without confirmation" short:"f"`
	ID    int64 `arg:"" help:"Activity id"`
}

// Run executes the del command
func (a *ActivitiesDelCmd) Run(cli *CLI) error {
	ctx := context.Background()
	logging.Logger.Info("Executing activities del command", "activity", a.ID, "force", a.Force)

	activity, err := cli.Container.ActivityService.Get(ctx, a.ID)
	if err != nil {
		return err
	}

	if !a.Force {
		ok, err := confirmFunc(
			fmt.Sprintf("Delete activity '%s'?", activity.Name),
			"All of its tasks and time entries are deleted too.",
		)
		if err != nil {
			return err
		}
		if !ok {
			logging.Logger.Info("User cancelled activity deletion", "activity", a.ID)
			fmt.Fprintln(cli.Stdout(), "Cancelled")
			return nil
		}
	}

	if err := cli.Container.ActivityService.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	fmt.Fprintf(cli.Stdout(), "Activity '%s' deleted\n", activity.Name)
	return nil
}
