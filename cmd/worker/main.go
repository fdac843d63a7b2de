package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/petcare-booking/internal/app/api"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/events"
	orderobs "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/observability"
	orderapp "github.com/Apurer/petcare-booking/internal/domains/orders/application"
	platformaws "github.com/Apurer/petcare-booking/internal/platform/aws"
	platformobservability "github.com/Apurer/petcare-booking/internal/platform/observability"
	orderactivities "github.com/Apurer/petcare-booking/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/petcare-booking/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "petcare-booking-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	dirs, cleanupDirs := api.BuildDirectories(ctx, cfg, logger)
	defer cleanupDirs()
	lifecycleOpts := []orderapp.Option{orderapp.WithLogger(logger)}
	// SSE subscribers live in the API process; expiry events only leave the worker through SQS.
	if cfg.OrderEventsQueueURL != "" {
		awsClients, err := platformaws.NewClients(ctx, cfg.AWSRegion)
		if err != nil {
			logger.Error("failed to load aws clients", slog.String("error", err.Error()))
			cleanupDirs()
			os.Exit(1)
		}
		lifecycleOpts = append(lifecycleOpts, orderapp.WithEventPublisher(events.NewSQSPublisher(awsClients.SQS, cfg.OrderEventsQueueURL)))
	}
	lifecycle := orderobs.NewLifecycle(
		orderapp.NewLifecycle(dirs.Orders, lifecycleOpts...),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	expiryActivities := orderactivities.NewActivities(lifecycle)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		cleanupDirs()
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderExpiryTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderExpiryWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderExpiryWorkflowName})
	w.RegisterActivityWithOptions(expiryActivities.ExpireOrder, activity.RegisterOptions{Name: orderactivities.ExpireOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderExpiryTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
