package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/mapty/internal/config"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Slot is a durable string-keyed value store. Get reports ok=false for an
// absent key.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects the slot selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (Slot, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemorySlot(), nil
	case config.DriverFile:
		return OpenFileSlot(cfg.Path)
	case config.DriverSQLite:
		return OpenSQLiteSlot(cfg.Path)
	case config.DriverPostgres:
		if err := RunMigrations(cfg.DSN); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		return OpenPostgresSlot(ctx, cfg.DSN)
	case config.DriverRedis:
		return OpenRedisSlot(ctx, cfg.Redis)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
