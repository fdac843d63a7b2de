package api

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	directory "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/booking/adapters/payment"
	bookingports "github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	orderremote "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/external/directory"
	ordermemory "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/Apurer/petcare-booking/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/petcare-booking/internal/domains/orders/ports"
	petremote "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/external/directory"
	petmemory "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/memory"
	petpostgres "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/persistence/postgres"
	petdomain "github.com/Apurer/petcare-booking/internal/domains/pets/domain"
	petports "github.com/Apurer/petcare-booking/internal/domains/pets/ports"
	staffremote "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/external/directory"
	staffmemory "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/memory"
	staffpostgres "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/persistence/postgres"
	staffports "github.com/Apurer/petcare-booking/internal/domains/staff/ports"
	"github.com/Apurer/petcare-booking/internal/platform/migrations"
	platformpostgres "github.com/Apurer/petcare-booking/internal/platform/postgres"
)

// Directories are the registries of pets, staff and orders plus the payment gateway.
type Directories struct {
	Pets     petports.Directory
	Staff    staffports.Directory
	Orders   orderports.Directory
	Payments bookingports.PaymentGateway
	Source   string
}

// BuildDirectories prefers the remote backend, then PostgreSQL, then memory.
func BuildDirectories(ctx context.Context, cfg Config, logger *slog.Logger) (Directories, func()) {
	if cfg.DirectoryBaseURL != "" {
		c, err := directory.NewClient(cfg.DirectoryBaseURL,
			directory.WithHTTPClient(&http.Client{Timeout: cfg.DirectoryTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}),
			directory.WithLocation(cfg.Location))
		if err == nil {
			logger.Info("directories configured with remote backend", slog.String("baseURL", cfg.DirectoryBaseURL))
			return Directories{
				Pets:     petremote.NewDirectory(c),
				Staff:    staffremote.NewDirectory(c),
				Orders:   orderremote.NewDirectory(c),
				Payments: payment.NewRemoteGateway(c),
				Source:   "remote",
			}, func() {}
		}
		logger.Warn("invalid DIRECTORY_BASE_URL, falling back to local directories", slog.String("error", err.Error()))
	}

	sandbox := payment.NewSandboxGateway(cfg.PaymentSandboxURL)
	if cfg.PostgresDSN != "" {
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.WithLogger(logger))
		if err != nil {
			logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		} else if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres, falling back to memory", slog.String("error", err.Error()))
		} else {
			pets := petpostgres.NewDirectory(db)
			if err := pets.EnsurePetTypes(ctx, petdomain.DefaultPetTypes); err != nil {
				logger.Warn("failed to seed pet types", slog.String("error", err.Error()))
			}
			cleanup := func() {}
			if sqlDB, err := db.DB(); err == nil {
				cleanup = func() { _ = sqlDB.Close() }
			}
			logger.Info("directories configured with postgres")
			return Directories{
				Pets:     pets,
				Staff:    staffpostgres.NewDirectory(db),
				Orders:   orderpostgres.NewDirectory(db),
				Payments: sandbox,
				Source:   "postgres",
			}, cleanup
		}
	} else {
		logger.Warn("DIRECTORY_BASE_URL and POSTGRES_DSN not set, falling back to in-memory directories")
	}
	return Directories{
		Pets:     petmemory.NewDirectory(),
		Staff:    staffmemory.NewDirectory(),
		Orders:   ordermemory.NewDirectory(),
		Payments: sandbox,
		Source:   "memory",
	}, func() {}
}
