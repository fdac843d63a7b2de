package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	bookingserver "github.com/Apurer/petcare-booking/go"
	bookingdynamo "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/dynamodb"
	bookingmemory "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/memory"
	bookingobs "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/observability"
	bookingapp "github.com/Apurer/petcare-booking/internal/domains/booking/application"
	bookingports "github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/events"
	orderobs "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/observability"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/scheduler"
	orderworkflows "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/petcare-booking/internal/domains/orders/application"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	petsobs "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/observability"
	petsapp "github.com/Apurer/petcare-booking/internal/domains/pets/application"
	staffapp "github.com/Apurer/petcare-booking/internal/domains/staff/application"
	platformaws "github.com/Apurer/petcare-booking/internal/platform/aws"
	platformobservability "github.com/Apurer/petcare-booking/internal/platform/observability"
)

const serviceName = "petcare-booking-api"

// Run boots the booking HTTP API with observability, directories, expiry and events wired.
// It returns when ctx is canceled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
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

	dirs, cleanupDirs := BuildDirectories(ctx, cfg, logger)
	defer cleanupDirs()

	var awsClients *platformaws.Clients
	if cfg.NeedsAWS() {
		if awsClients, err = platformaws.NewClients(ctx, cfg.AWSRegion); err != nil {
			return fmt.Errorf("failed to load aws clients: %w", err)
		}
	}

	broadcaster := events.NewBroadcaster(logger)
	publishers := events.Fanout{broadcaster}
	if cfg.OrderEventsQueueURL != "" {
		publishers = append(publishers, events.NewSQSPublisher(awsClients.SQS, cfg.OrderEventsQueueURL))
		logger.Info("order events forwarded to sqs", slog.String("queueURL", cfg.OrderEventsQueueURL))
	}

	var expiry orderports.ExpiryScheduler
	inline := orderworkflows.NewInlineExpiryScheduler(logger)
	defer inline.Stop()
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, arming in-process expiry timers", slog.String("error", err.Error()))
		expiry = inline
	} else {
		defer temporalClient.Close()
		expiry = orderworkflows.NewTemporalExpiryScheduler(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	coreLifecycle := orderapp.NewLifecycle(dirs.Orders,
		orderapp.WithLogger(logger),
		orderapp.WithEventPublisher(publishers),
		orderapp.WithExpiryScheduler(expiry),
	)
	inline.Attach(coreLifecycle)
	lifecycle := orderobs.NewLifecycle(coreLifecycle,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	staff := staffapp.NewService(dirs.Staff)
	rescheduler := orderobs.NewRescheduler(
		orderapp.NewReschedule(dirs.Orders, staff,
			orderapp.WithRescheduleEvents(publishers),
			orderapp.WithRescheduleLogger(logger),
			orderapp.WithRescheduleLocation(cfg.Location),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	pets := petsobs.New(petsapp.NewService(dirs.Pets),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)

	var store bookingports.StagingStore = bookingmemory.NewStagingStore()
	if cfg.StagingBackend == StagingDynamoDB {
		store = bookingdynamo.NewStagingStore(awsClients.DynamoDB, cfg.StagingTable, cfg.StagingTTL)
		logger.Info("booking sessions staged in dynamodb", slog.String("table", cfg.StagingTable))
	}
	staging := bookingapp.NewStaging(store, time.Now)
	booking := bookingobs.New(
		bookingapp.NewOrchestrator(bookingapp.Dependencies{
			Staging:  staging,
			Slots:    bookingapp.NewSlotAllocator(cfg.Location, time.Now),
			Payments: bookingapp.NewPayments(dirs.Payments, lifecycle, staging, cfg.PaymentCallbackURL, logger),
			Pets:     pets,
			Staff:    staff,
			Orders:   lifecycle,
		}, bookingapp.WithLogger(logger)),
		bookingobs.WithLogger(logger),
		bookingobs.WithTracer(instruments.Tracer("internal.booking.application")),
		bookingobs.WithMeter(instruments.Meter("internal.booking.application")),
	)

	handlers := bookingserver.ApiHandleFunctions{
		BookingAPI:   bookingserver.NewBookingAPI(booking),
		OrderAPI:     bookingserver.NewOrderAPI(lifecycle, rescheduler, broadcaster, cfg.Location),
		ReferenceAPI: bookingserver.NewReferenceAPI(booking),
	}
	router := bookingserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	sweeper := scheduler.NewSweeper(lifecycle, scheduler.WithInterval(cfg.SweepInterval), scheduler.WithLogger(logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("booking API listening", slog.String("addr", srv.Addr), slog.String("directories", dirs.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("booking API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
