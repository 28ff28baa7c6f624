package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for establishing a database connection.
type Config struct {
	DSN     string
	Timeout time.Duration
}

// Connect opens a GORM handle, verifies connectivity with a ping, and runs
// schema migration. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if err := db.AutoMigrate(
		&accountRow{},
		&adminProfileRow{},
		&cscProfileRow{},
		&customerProfileRow{},
		&applicationRow{},
		&documentRow{},
	); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}

	return db, nil
}
