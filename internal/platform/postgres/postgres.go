package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool sizes the connection pool shared by the pet, staff and order directories.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool fits a single API process plus its sweeper.
var DefaultPool = Pool{MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}

type Option func(*settings)

type settings struct {
	pool   Pool
	logger *slog.Logger
}

func WithPool(p Pool) Option {
	return func(s *settings) { s.pool = p }
}

// WithLogger routes slow queries and driver errors to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// Connect opens a PostgreSQL connection via GORM, sizes the pool and verifies
// connectivity. Timestamps are written in UTC.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	cfg := settings{pool: DefaultPool}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	gormCfg := &gorm.Config{NowFunc: func() time.Time { return time.Now().UTC() }}
	if cfg.logger != nil {
		gormCfg.Logger = gormlogger.New(slogWriter{cfg.logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.pool.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.LogAttrs(context.Background(), slog.LevelWarn, "gorm", slog.String("detail", fmt.Sprintf(format, args...)))
}
