package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/Apurer/petcare-booking/internal/app/api"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/scheduler"
	orderapp "github.com/Apurer/petcare-booking/internal/domains/orders/application"
)

// order-sweeper cancels every unpaid order past its payment window once and exits.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	dirs, cleanup := api.BuildDirectories(ctx, cfg, logger)
	defer cleanup()
	if dirs.Source == "memory" {
		log.Fatal("DIRECTORY_BASE_URL or POSTGRES_DSN required; nothing to sweep in memory")
	}

	lifecycle := orderapp.NewLifecycle(dirs.Orders, orderapp.WithLogger(logger))
	result := scheduler.NewSweeper(lifecycle, scheduler.WithLogger(logger)).Once(ctx)
	if result == nil {
		log.Fatal("order sweep failed")
	}
	log.Printf("order sweep completed: expired=%d skipped=%d failed=%d", len(result.Expired), result.Skipped, len(result.Failed))
}
