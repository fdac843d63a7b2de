package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	bookingdynamo "github.com/Apurer/petcare-booking/internal/domains/booking/adapters/dynamodb"
	"github.com/Apurer/petcare-booking/internal/domains/orders/adapters/scheduler"
	platformaws "github.com/Apurer/petcare-booking/internal/platform/aws"
)

// Staging backends.
const (
	StagingMemory   = "memory"
	StagingDynamoDB = "dynamodb"
)

// Config carries environment-driven settings for the booking processes.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	// DirectoryBaseURL points at the remote backend; empty means local directories.
	DirectoryBaseURL   string
	DirectoryTimeout   time.Duration
	PaymentCallbackURL string
	PaymentSandboxURL  string
	Location           *time.Location

	SweepInterval time.Duration

	StagingBackend      string
	StagingTable        string
	StagingTTL          time.Duration
	OrderEventsQueueURL string
	AWSRegion           string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		DirectoryBaseURL:    strings.TrimSpace(os.Getenv("DIRECTORY_BASE_URL")),
		PaymentSandboxURL:   strings.TrimSpace(os.Getenv("PAYMENT_SANDBOX_URL")),
		SweepInterval:       scheduler.DefaultInterval,
		StagingBackend:      strings.ToLower(envDefault("STAGING_BACKEND", StagingMemory)),
		StagingTable:        strings.TrimSpace(os.Getenv("STAGING_TABLE")),
		StagingTTL:          bookingdynamo.DefaultTTL,
		OrderEventsQueueURL: strings.TrimSpace(os.Getenv("ORDER_EVENTS_QUEUE_URL")),
		AWSRegion:           envDefault("AWS_REGION", platformaws.DefaultRegion),
	}
	cfg.PaymentCallbackURL = envDefault("PAYMENT_CALLBACK_URL", "http://localhost:"+cfg.Port+"/v1/booking/payments/callback")

	var errs []error
	var err error
	if cfg.DirectoryTimeout, err = positiveDuration("DIRECTORY_TIMEOUT_SECONDS", time.Second, 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.SweepInterval, err = positiveDuration("SWEEP_INTERVAL_SECONDS", time.Second, scheduler.DefaultInterval); err != nil {
		errs = append(errs, err)
	}
	if cfg.StagingTTL, err = positiveDuration("STAGING_TTL_HOURS", time.Hour, bookingdynamo.DefaultTTL); err != nil {
		errs = append(errs, err)
	}
	zone := envDefault("BOOKING_TIMEZONE", "Asia/Ho_Chi_Minh")
	if cfg.Location, err = time.LoadLocation(zone); err != nil {
		errs = append(errs, fmt.Errorf("BOOKING_TIMEZONE %q: %w", zone, err))
	}
	switch cfg.StagingBackend {
	case StagingMemory:
	case StagingDynamoDB:
		if cfg.StagingTable == "" {
			errs = append(errs, errors.New("STAGING_TABLE is required when STAGING_BACKEND=dynamodb"))
		}
	default:
		errs = append(errs, fmt.Errorf("STAGING_BACKEND must be %q or %q", StagingMemory, StagingDynamoDB))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NeedsAWS reports whether any AWS-backed adapter is configured.
func (c Config) NeedsAWS() bool {
	return c.StagingBackend == StagingDynamoDB || c.OrderEventsQueueURL != ""
}

func positiveDuration(key string, unit, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
