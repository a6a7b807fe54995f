package temporal

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// LifecycleParams drives one tournament from Open to Ended on schedule.
type LifecycleParams struct {
	Tournament string
	StartTime  time.Time
	EndTime    time.Time
}

// TournamentLifecycleWorkflow is the time-based closer: the core defines
// the status transitions but nothing inside it fires them, so this workflow
// sleeps to start_time, activates the tournament, sleeps to end_time and
// ends it.
func TournamentLifecycleWorkflow(ctx workflow.Context, params LifecycleParams) error {
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute * 5,
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	if delay := params.StartTime.Sub(workflow.Now(ctx)); delay > 0 {
		if err := workflow.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	if err := workflow.ExecuteActivity(ctx, StartTournamentActivity, params.Tournament).Get(ctx, nil); err != nil {
		return err
	}

	if delay := params.EndTime.Sub(workflow.Now(ctx)); delay > 0 {
		if err := workflow.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	if err := workflow.ExecuteActivity(ctx, EndTournamentActivity, params.Tournament).Get(ctx, nil); err != nil {
		return err
	}

	return nil
}
