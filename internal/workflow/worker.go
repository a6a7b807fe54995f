package temporal

import (
	"context"
	"fmt"
	"log"
	"sync"

	"arena/config"
	"arena/internal/arena"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"gorm.io/gorm"
)

var (
	coreInstance *arena.Core
	dbInstance   *gorm.DB
	once         sync.Once
)

// SetCore wires the activities to the state machine. Tests use it directly;
// StartWorker calls it once.
func SetCore(c *arena.Core) {
	coreInstance = c
}

func SetDB(gdb *gorm.DB) {
	dbInstance = gdb
}

func StartWorker(cfg *config.Config, c *arena.Core, gdb *gorm.DB) (client.Client, error) {
	once.Do(func() {
		SetCore(c)
		SetDB(gdb)
	})

	tc, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Temporal client: %w", err)
	}

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(TournamentLifecycleWorkflow)
	w.RegisterActivity(StartTournamentActivity)
	w.RegisterActivity(EndTournamentActivity)

	go func() {
		if err := w.Run(worker.InterruptCh()); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
	}()

	return tc, nil
}

// ScheduleLifecycle launches the closer workflow for a freshly created
// tournament.
func ScheduleLifecycle(ctx context.Context, tc client.Client, taskQueue string, t arena.Tournament) error {
	_, err := tc.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("tournament-lifecycle-%s", t.Address),
		TaskQueue: taskQueue,
	}, TournamentLifecycleWorkflow, LifecycleParams{
		Tournament: t.Address.String(),
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
	})
	if err != nil {
		return fmt.Errorf("failed to start lifecycle workflow: %w", err)
	}
	return nil
}

func GetCore() *arena.Core {
	return coreInstance
}

func GetDB() *gorm.DB {
	return dbInstance
}
