package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	temporalworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-booking-api/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-booking-api/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-booking-api/internal/platform/temporal/workflows/orders"
)

// Run hosts the order notification workflow until interrupted.
func Run(ctx context.Context) error {
	const serviceName = "booking-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TemporalDisabled {
		return fmt.Errorf("worker requires Temporal, unset TEMPORAL_DISABLED")
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	temporalClient, err := api.DialTemporal(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := orderactivities.NewActivities(api.NewDispatcher(cfg, logger))

	w := temporalworker.New(temporalClient, orderworkflows.NotificationTaskQueue, temporalworker.Options{})
	Register(w, activities)

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.NotificationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

// Register binds the notification workflow and activity under their stable names.
func Register(r temporalworker.Registry, activities *orderactivities.Activities) {
	r.RegisterWorkflowWithOptions(orderworkflows.NotificationWorkflow, workflow.RegisterOptions{Name: orderworkflows.NotificationWorkflowName})
	r.RegisterActivityWithOptions(activities.SendNotification, activity.RegisterOptions{Name: orderactivities.SendNotificationActivityName})
}
